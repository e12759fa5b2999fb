package preview

import (
	"html/template"
	"net/http"

	"github.com/lixenwraith/cardfx/card"
)

var indexTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>cardfx preview</title>
<style>
body { background: #0b0b12; color: #ddd; font-family: monospace; }
.grid { display: flex; flex-wrap: wrap; gap: 12px; }
.card { width: {{.Width}}px; }
.card img { width: {{.Width}}px; height: {{.Height}}px; display: block; border: 1px solid #333; }
.card.pulse img { border-color: #fff; }
</style>
</head>
<body>
<div class="grid">
{{range .Presets}}<div class="card" data-preset="{{.}}"><img alt="{{.}}"><div>{{.}}</div></div>
{{end}}</div>
<script>
document.querySelectorAll(".card").forEach(function (el) {
  var img = el.querySelector("img");
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws?card=" + el.dataset.preset);
  ws.binaryType = "blob";
  ws.onmessage = function (ev) {
    if (typeof ev.data === "string") {
      var msg = JSON.parse(ev.data);
      el.classList.toggle("pulse", msg.type === "pulse_started");
      return;
    }
    var url = URL.createObjectURL(ev.data);
    var prev = img.src;
    img.src = url;
    if (prev) URL.revokeObjectURL(prev);
  };
});
</script>
</body>
</html>
`))

func (s *Server) index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		Width, Height int
		Presets       []string
	}{s.opts.Width, s.opts.Height, card.PresetNames()}
	if err := indexTmpl.Execute(w, data); err != nil {
		s.log.Warn().Err(err).Msg("index render failed")
	}
}
