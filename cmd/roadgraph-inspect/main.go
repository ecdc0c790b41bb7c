// Command roadgraph-inspect opens an existing roadgraph store read-only,
// renders its header fields, bounding box, and size statistics, and lets
// the operator trigger Optimize interactively with a confirmation prompt.
// It is a storage inspector, not a routing or query CLI.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/roadgraph/pkg/directory"
	"github.com/dd0wney/roadgraph/pkg/encoding"
	"github.com/dd0wney/roadgraph/pkg/graph"
	"github.com/dd0wney/roadgraph/pkg/logging"
	"github.com/dd0wney/roadgraph/pkg/metrics"
	"github.com/dd0wney/roadgraph/pkg/nameidx"
	"github.com/dd0wney/roadgraph/pkg/propstore"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginLeft(2)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type keyMap struct {
	Optimize key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Optimize: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "optimize")),
	Confirm:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
	Cancel:   key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/esc", "cancel")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Optimize, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Optimize, k.Confirm, k.Cancel, k.Quit}}
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type model struct {
	engine          *graph.Engine
	dataDir         string
	help            help.Model
	keys            keyMap
	confirmOptimize bool
	message         string
	messageErr      bool
	stats           graph.Stats
	bbox            graph.BBox

	metricsRegistry *metrics.Registry
	startedAt       time.Time
}

func initialModel(e *graph.Engine, dataDir string, metricsRegistry *metrics.Registry) model {
	return model{
		engine:          e,
		dataDir:         dataDir,
		help:            help.New(),
		keys:            keys,
		stats:           e.Stats(),
		bbox:            e.BBox(),
		metricsRegistry: metricsRegistry,
		startedAt:       time.Now(),
	}
}

func (m model) Init() tea.Cmd { return tickCmd() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.stats = m.engine.Stats()
		m.bbox = m.engine.BBox()
		if m.metricsRegistry != nil {
			m.metricsRegistry.UpdateProcessGauges(m.startedAt)
		}
		return m, tickCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case m.confirmOptimize && key.Matches(msg, m.keys.Confirm):
			m.confirmOptimize = false
			if err := m.engine.Optimize(); err != nil {
				m.message = fmt.Sprintf("optimize failed: %v", err)
				m.messageErr = true
				break
			}
			if err := m.engine.Flush(); err != nil {
				m.message = fmt.Sprintf("flush failed: %v", err)
				m.messageErr = true
				break
			}
			m.message = "optimize complete and flushed"
			m.messageErr = false
			m.stats = m.engine.Stats()

		case m.confirmOptimize && key.Matches(msg, m.keys.Cancel):
			m.confirmOptimize = false
			m.message = "optimize cancelled"
			m.messageErr = false

		case !m.confirmOptimize && key.Matches(msg, m.keys.Optimize):
			if m.stats.PendingRemovals == 0 {
				m.message = "no pending removals, nothing to optimize"
				m.messageErr = false
				break
			}
			m.confirmOptimize = true
		}
	}
	return m, nil
}

func (m model) View() string {
	title := titleStyle.Render(fmt.Sprintf("roadgraph-inspect — %s", m.dataDir))

	body := fmt.Sprintf(
		"node_count       %d\nedge_count       %d\ntombstones       %d\ngeometry words   %d\npending removals %d\n\nbbox lat [%.6f, %.6f]\nbbox lon [%.6f, %.6f]",
		m.stats.NodeCount, m.stats.EdgeCount, m.stats.TombstoneCount, m.stats.GeoWordsUsed, m.stats.PendingRemovals,
		m.bbox.MinLat, m.bbox.MaxLat, m.bbox.MinLon, m.bbox.MaxLon,
	)
	box := statsBoxStyle.Render(body)

	var status string
	switch {
	case m.confirmOptimize:
		status = warnStyle.Render(fmt.Sprintf("optimize %d node(s)? [y/n]", m.stats.PendingRemovals))
	case m.message != "" && m.messageErr:
		status = errorStyle.Render(m.message)
	case m.message != "":
		status = successStyle.Render(m.message)
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n%s\n", title, box, status, helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
}

func main() {
	dataDir := flag.String("data", "", "directory holding nodes.bin, edges.bin, geometry.bin, properties.yml")
	encoders := flag.String("encoders", "car", "comma-separated encoder list to verify against the stored fingerprint")
	debug := flag.Bool("debug", false, "promote compaction health-check anomalies to hard errors")
	metricsAddr := flag.String("metrics-addr", "", "if set, serve Prometheus metrics on this address while the TUI runs (e.g. :9090)")
	flag.Parse()

	if *dataDir == "" {
		fmt.Fprintln(os.Stderr, "usage: roadgraph-inspect -data <dir>")
		os.Exit(2)
	}

	log := logging.NewDefaultLogger()
	metricsRegistry := metrics.NewRegistry()

	cfg := graph.Config{
		Nodes:    directory.NewMMapDirectory("nodes", filepath.Join(*dataDir, "nodes.bin")),
		Edges:    directory.NewMMapDirectory("edges", filepath.Join(*dataDir, "edges.bin")),
		Geometry: directory.NewMMapDirectory("geometry", filepath.Join(*dataDir, "geometry.bin")),
		Names:    nameidx.New(),
		Codec:    encoding.NewDefaultManager(*encoders),

		DebugChecks: *debug,
		Metrics:     metricsRegistry,
	}
	propsPath := filepath.Join(*dataDir, "properties.yml")
	props, err := propstore.Open(propsPath)
	if err != nil {
		log.Error("open properties store", logging.Path(propsPath), logging.Error(err))
		os.Exit(1)
	}
	cfg.Properties = props

	e := graph.New(log)
	if err := e.LoadExisting(cfg); err != nil {
		log.Error("load store", logging.Path(*dataDir), logging.Error(err))
		os.Exit(1)
	}
	defer e.Close()

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(metricsRegistry.GetPrometheusRegistry(), promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Error("metrics server stopped", logging.Path(*metricsAddr), logging.Error(err))
			}
		}()
	}

	p := tea.NewProgram(initialModel(e, *dataDir, metricsRegistry))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
		os.Exit(1)
	}
}
