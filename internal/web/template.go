package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/haiml123/dog-app/internal/status"
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
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Dog Trainer</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.yes { color: green; font-weight: bold; }
.no { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Dog Trainer</h1>

<h2>Remote</h2>
<table>
<tr><th>Learned</th><td class="{{if .Signature.Learned}}yes{{else}}no{{end}}">{{if .Signature.Learned}}yes{{else}}no ({{.Signature.SampleCount}}/3 samples){{end}}</td></tr>
<tr><th>Pulse range</th><td>{{.Signature.MinPulses}}–{{.Signature.MaxPulses}}</td></tr>
<tr><th>Average pulses</th><td>{{.Signature.AvgPulses}}</td></tr>
<tr><th>Samples</th><td>{{.Signature.SampleCount}}</td></tr>
<tr><th>Queue backlog</th><td>{{.Backlog}}</td></tr>
</table>

<h2>Training</h2>
<table>
<tr><th>Level</th><td>{{.Training.Level}}</td></tr>
<tr><th>Successes at level</th><td>{{.Training.Successes}}</td></tr>
<tr><th>Quiet target</th><td>{{.Training.QuietTargetMs}}ms</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Single click</th><td>{{.Counts.Single}}</td></tr>
<tr><th>Double click</th><td>{{.Counts.Double}}</td></tr>
<tr><th>Triple click</th><td>{{.Counts.Triple}}</td></tr>
<tr><th>Bark</th><td>{{.Counts.Bark}}</td></tr>
<tr><th>Dispense</th><td>{{.Counts.Dispense}}</td></tr>
<tr><th>Punish</th><td>{{.Counts.Punish}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>Double window</th><td>{{.Config.DoubleWindowMs}}ms</td></tr>
<tr><th>Triple window</th><td>{{.Config.TripleWindowMs}}ms</td></tr>
<tr><th>Bark window</th><td>{{.Config.BarkWindowMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPPort}}</td></tr>
<tr><th>Database</th><td>{{.Config.DBPath}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
