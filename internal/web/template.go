package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/segment-voltmeter/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"volts": func(v float64) string {
		return fmt.Sprintf("%.3f V", v)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Segment Voltmeter</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.readout { font-size: 2.4em; color: #c00; background: #111; padding: 0.2em 0.4em; display: inline-block; letter-spacing: 0.1em; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Segment Voltmeter</h1>

<p><span id="readout" class="readout">{{.Text}}</span></p>

<h2>Display</h2>
<table>
<tr><th>Scanning</th><td>{{if .Scanning}}yes{{else}}no{{end}}</td></tr>
<tr><th>Write errors</th><td>{{.WriteErrors}}</td></tr>
</table>

<h2>Last Measurement</h2>
<table>
{{with .Last}}<tr><th>Voltage</th><td>{{volts .Volts}}</td></tr>
<tr><th>Raw average</th><td>{{.Average}}</td></tr>
<tr><th>Taken</th><td>{{.Time.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>ID</th><td>{{.ID}}</td></tr>{{else}}<tr><th>Voltage</th><td>none yet</td></tr>{{end}}
</table>

<h2>Triggers</h2>
<table>
<tr><th>Accepted</th><td>{{.Counts.Accepted}}</td></tr>
<tr><th>Debounced</th><td>{{.Counts.Rejected}}</td></tr>
<tr><th>ADC errors</th><td>{{.Counts.Failed}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Mode</th><td>{{.Config.Mode}}</td></tr>
<tr><th>GPIO backend</th><td>{{.Config.Backend}}</td></tr>
<tr><th>Scan</th><td>{{.Config.ScanMs}}ms</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

{{if .SelfTest}}<form method="post" action="/selftest"><button type="submit">Run display self test</button></form>{{end}}
<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot, selfTest bool) {
	// Snapshot has methods but the template needs plain fields.
	data := struct {
		status.Snapshot
		Uptime   time.Duration
		Text     string
		SelfTest bool
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		Text:     status.DisplayText(snap),
		SelfTest: selfTest,
	}
	indexTmpl.Execute(w, data)
}
