package notify

import (
	"github.com/sirupsen/logrus"

	"datatable/session"
	"datatable/tableconfig"
)

// LogRenderer records every committed configuration in the log.
type LogRenderer struct {
	Log logrus.FieldLogger
}

func (l LogRenderer) Render(tableID string, cfg tableconfig.Config) {
	if l.Log == nil {
		return
	}
	d := tableconfig.Resolve(cfg)
	l.Log.WithFields(logrus.Fields{
		"table":    tableID,
		"options":  len(cfg),
		"pageSize": d.PageSize,
		"tabs":     len(d.Tabs.Tabs),
	}).Info("Rendered table configuration.")
}

// Multi renders to each renderer in order.
type Multi []session.Renderer

func (m Multi) Render(tableID string, cfg tableconfig.Config) {
	for _, r := range m {
		if r != nil {
			r.Render(tableID, cfg)
		}
	}
}
