package server

import "github.com/flumotion/depgraph/pkg/types"

// kindPathNames maps the URL segment used in /api/v1/liveness/{kind}/...
// to the corresponding types.Kind. Kept separate from types.Kind.String()
// since that one is tuned for log lines ("COMPONENTSETUP"), not URLs.
var kindPathNames = map[string]types.Kind{
	"worker":          types.WORKER,
	"job":             types.JOB,
	"component-setup": types.COMPONENTSETUP,
	"clock-master":    types.CLOCKMASTER,
	"component-start": types.COMPONENTSTART,
}

func parseKindPath(s string) (types.Kind, bool) {
	k, ok := kindPathNames[s]
	return k, ok
}
