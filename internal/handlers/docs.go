package handlers

import (
	"html/template"
	"net/http"
)

const apiDocsHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>milkchess API</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 960px;
            margin: 0 auto;
            padding: 20px;
        }
        code, pre {
            background: #f4f4f8;
            border-radius: 4px;
            padding: 2px 6px;
            font-family: 'SF Mono', Menlo, Consolas, monospace;
        }
        pre { padding: 12px; overflow-x: auto; }
        .method { font-weight: bold; color: #2a6; }
        h2 { border-bottom: 1px solid #ddd; margin-top: 32px; }
    </style>
</head>
<body>
<h1>milkchess API</h1>
<p>Legal move generation and position analysis. Positions are 70-character strings:
64 squares from a8 to h1 (<code>.</code> for empty, upper case for White), four castling flags
(<code>t</code>/<code>f</code> for Black queenside, Black kingside, White queenside, White kingside),
the en-passant file (<code>0</code>-<code>7</code> or <code>f</code>) and the side to move
(<code>w</code>/<code>b</code>). Any endpoint taking <code>position</code> also accepts <code>fen</code>.</p>

<pre>{{.StartPosition}}</pre>

{{if .AuthEnabled}}
<h2>Authentication</h2>
<p><span class="method">POST</span> <code>/api/auth/token</code> with <code>{"client": "...", "secret": "..."}</code>
returns <code>{"accessToken": "...", "tokenType": "Bearer", "expiresIn": 3600}</code>.
Send it as <code>Authorization: Bearer &lt;token&gt;</code>, or as <code>?token=</code> on the WebSocket.</p>
{{end}}

<h2>Positions</h2>
<p><span class="method">POST</span> <code>/api/positions/analyze</code> <code>{"position": "..."}</code>:
state, FEN and every legal move with its SAN, coordinate notation and resulting position.
An optional <code>"history"</code> of earlier positions, oldest first, reports <code>threefold_repetition</code>.</p>
<p><span class="method">POST</span> <code>/api/positions/moves</code>: <code>{"positions": [...]}</code>, one per legal move.</p>
<p><span class="method">POST</span> <code>/api/positions/state</code>: <code>{"state": "Playing"}</code>. States are
Playing, CheckWhite, CheckBlack, CheckmateWhite, CheckmateBlack and Stalemate.</p>
<p><span class="method">POST</span> <code>/api/positions/batch</code> <code>{"positions": [...]}</code>:
up to {{.MaxBatchSize}} analyses; invalid entries carry an <code>error</code>.</p>
<p><span class="method">POST</span> <code>/api/positions/perft</code> <code>{"position": "...", "depth": 3}</code>:
leaf counts split by root move, depth 1 to {{.MaxPerftDepth}}.</p>
<p>Malformed positions return <code>400</code> with <code>{"error": "..."}</code>.</p>

<h2>Streaming</h2>
<p><code>GET /ws/analyze</code> opens a WebSocket. Send a position string, or
<code>{"id": "1", "type": "analyze|moves|state", "position": "..."}</code>; each frame gets one reply
of type <code>analysis</code>, <code>moves</code>, <code>state</code> or <code>error</code>.</p>
</body>
</html>`

var apiDocsTemplate = template.Must(template.New("docs").Parse(apiDocsHTML))

// DocsData fills the API documentation page.
type DocsData struct {
	StartPosition string
	AuthEnabled   bool
	MaxBatchSize  int
	MaxPerftDepth int
}

// ServeAPIDocs returns a handler rendering the API documentation.
func ServeAPIDocs(data DocsData) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		apiDocsTemplate.Execute(w, data)
	}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Streams int    `json:"streams"`
}

// Health reports liveness and the number of open analysis streams.
func Health(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok", Streams: hub.Count()})
	}
}
