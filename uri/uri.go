// Package uri parses binding URIs and maintains the scheme registry that
// maps a URI scheme to a DataSource factory, plus a separate
// extension-to-constructor registry used by the fs backend's
// per-file-type dispatch. Grounded on hive/merge's session/plan style for
// multi-step, validated setup (parse, then validate, then commit) from
// the teacher repo.
package uri

import (
	"fmt"
	"strings"
	"sync"

	"github.com/nodel-go/nodel"
)

// Parts aliases nodel.URIParts directly (rather than redeclaring an
// equivalent struct) so DataSource.Configure, which lives in the nodel
// package to avoid an import cycle back through uri, and this package's
// own Parse both produce and consume the exact same type.
type Parts = nodel.URIParts

// Parse splits a URI into Parts: scheme://host/path?query#fragment.
func Parse(raw string) (Parts, error) {
	p := Parts{Raw: raw}
	rest := raw

	if idx := strings.Index(rest, "://"); idx >= 0 {
		p.Scheme = rest[:idx]
		rest = rest[idx+3:]
	} else {
		return Parts{}, fmt.Errorf("uri: missing scheme in %q", raw)
	}

	if idx := strings.Index(rest, "#"); idx >= 0 {
		p.Fragment = rest[idx+1:]
		rest = rest[:idx]
	}

	if idx := strings.Index(rest, "?"); idx >= 0 {
		p.Query = parseQuery(rest[idx+1:])
		rest = rest[:idx]
	} else {
		p.Query = map[string]string{}
	}

	if idx := strings.Index(rest, "/"); idx >= 0 {
		p.Host = rest[:idx]
		p.Path = rest[idx:]
	} else {
		p.Host = rest
		p.Path = ""
	}
	return p, nil
}

func parseQuery(s string) map[string]string {
	q := make(map[string]string)
	for _, pair := range strings.Split(s, "&") {
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 {
			q[kv[0]] = kv[1]
		} else {
			q[kv[0]] = ""
		}
	}
	return q
}

// Factory constructs a fresh, unconfigured DataSource for a scheme.
type Factory func() nodel.DataSource

// ExtensionFactory constructs a DataSource specialized for a file
// extension (".json", ".csv", ...), kept in a registry distinct from the
// scheme registry per the explicit separation the data model calls for.
type ExtensionFactory func() nodel.DataSource

var (
	registryMu   sync.Mutex
	schemes      = map[string]Factory{}
	extensions   = map[string]ExtensionFactory{}
)

// Register adds a scheme -> factory mapping, e.g. Register("file", ...).
// Safe to call from an init() in a backend package for self-registration.
func Register(scheme string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	schemes[scheme] = f
}

// RegisterExtension adds an extension -> factory mapping (e.g. ".json").
func RegisterExtension(ext string, f ExtensionFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	extensions[ext] = f
}

// Lookup returns the registered factory for a scheme. Every call takes
// the registry mutex; there is no per-goroutine mirror of the table and
// no lock-free lookup path.
func Lookup(scheme string) (Factory, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	f, ok := schemes[scheme]
	return f, ok
}

// LookupExtension returns the registered factory for a file extension.
func LookupExtension(ext string) (ExtensionFactory, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	f, ok := extensions[ext]
	return f, ok
}

// Bind parses raw, resolves its scheme to a registered factory,
// constructs and configures a DataSource, and wraps it as a root
// nodel.Value (parse -> resolve -> construct -> configure -> wrap).
func Bind(raw string) (nodel.Value, error) {
	parts, err := Parse(raw)
	if err != nil {
		return nodel.Nil, err
	}
	factory, ok := Lookup(parts.Scheme)
	if !ok {
		return nodel.Nil, fmt.Errorf("uri: no DataSource registered for scheme %q", parts.Scheme)
	}
	ds := factory()
	if err := ds.Configure(parts); err != nil {
		return nodel.Nil, fmt.Errorf("uri: configuring %q source: %w", parts.Scheme, err)
	}
	return nodel.FromDataSource(ds), nil
}
