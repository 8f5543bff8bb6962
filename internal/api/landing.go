package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const landingHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Banking Assistant</title>
<style>
  *, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; background: #f8fafc; color: #0f172a; min-height: 100vh; display: flex; align-items: center; justify-content: center; }
  .card { max-width: 640px; width: 90%; background: #ffffff; border: 1px solid #e2e8f0; border-radius: 12px; padding: 2.5rem; }
  h1 { font-size: 1.6rem; margin-bottom: 0.5rem; }
  .subtitle { color: #475569; margin-bottom: 1.75rem; }
  .section { margin-bottom: 1.5rem; }
  .section-title { font-size: 0.75rem; text-transform: uppercase; letter-spacing: 0.1em; color: #64748b; margin-bottom: 0.5rem; }
  pre { background: #0f172a; border-radius: 8px; padding: 1rem; overflow-x: auto; font-size: 0.85rem; line-height: 1.5; color: #e2e8f0; }
  code, .endpoint { font-family: "SF Mono", Menlo, monospace; }
  .endpoint { font-size: 0.9rem; color: #1d4ed8; }
  p { margin-bottom: 0.35rem; }
</style>
</head>
<body>
<div class="card">
  <h1>Banking Assistant</h1>
  <p class="subtitle">Answers questions from ingested bank documents and books interviews.</p>

  <div class="section">
    <div class="section-title">Endpoints</div>
    <p><span class="endpoint">POST /ingest</span> upload a .pdf or .txt file</p>
    <p><span class="endpoint">GET /chat?query=&amp;session_id=</span> ask a question</p>
    <p><span class="endpoint">GET /health</span> dependency status</p>
    <p><span class="endpoint">/mcp</span> MCP Streamable HTTP</p>
  </div>

  <div class="section">
    <div class="section-title">Try it</div>
    <pre><code>curl -F file=@policy.pdf -F strategy=fixed http://localhost:8000/ingest
curl "http://localhost:8000/chat?query=What+are+the+savings+rates%3F&amp;session_id=alice"</code></pre>
  </div>
</div>
</body>
</html>`

// Landing serves a short description of the service at /.
func Landing(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(landingHTML))
}
