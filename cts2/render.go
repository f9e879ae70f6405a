package cts2

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	mapentry "github.com/karupanerura/cts2-mapentry"
)

// AccessDateLayout is the layout of core:accessDate without the fractional seconds.
const AccessDateLayout = "2006-01-02T15:04:05"

// FormatAccessDate formats t in local time as an ISO 8601 date-time without zone.
// Microseconds are appended only when non-zero.
func FormatAccessDate(t time.Time) string {
	t = t.Local()
	s := t.Format(AccessDateLayout)
	if us := t.Nanosecond() / int(time.Microsecond); us != 0 {
		s += fmt.Sprintf(".%06d", us)
	}
	return s
}

// Renderer builds documents for one map version served under one server root.
type Renderer struct {
	serverRoot string
	mapVersion string
	clock      mapentry.Clock
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMapVersion sets the map version token. The default is DefaultMapVersion.
func WithMapVersion(version string) Option {
	return func(r *Renderer) {
		r.mapVersion = version
	}
}

// WithClock sets the clock the access date is read from.
func WithClock(clock mapentry.Clock) Option {
	return func(r *Renderer) {
		r.clock = clock
	}
}

// NewRenderer creates a renderer for documents served under serverRoot.
// A trailing slash of serverRoot is dropped.
func NewRenderer(serverRoot string, opts ...Option) *Renderer {
	r := &Renderer{
		serverRoot: strings.TrimSuffix(serverRoot, "/"),
		mapVersion: DefaultMapVersion,
		clock:      mapentry.SystemClock,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MapVersion returns the map version token.
func (r *Renderer) MapVersion() string {
	return r.mapVersion
}

// RoutePrefix returns the path all map routes are mounted under.
func (r *Renderer) RoutePrefix() string {
	return "/map/" + MapName + "/version/" + r.mapVersion
}

// EntryPath returns the canonical path of the entry of cui, escaped for use in a URL.
func (r *Renderer) EntryPath(cui string) string {
	return r.RoutePrefix() + "/entry/" + url.PathEscape(cui)
}

// EntryURL returns the canonical URL of the entry of cui.
func (r *Renderer) EntryURL(cui string) string {
	return r.serverRoot + r.EntryPath(cui)
}

// MapEntry builds the document of a single entry.
// Targets are numbered from 1 in the order of the entry's codes.
func (r *Renderer) MapEntry(entry mapentry.MapEntry) *MapEntryMsg {
	resourceRoot := "map/" + MapName + "/version/" + r.mapVersion + "/entry/" + entry.CUI

	targets := make([]MapTarget, len(entry.Codes))
	for i, code := range entry.Codes {
		targets[i] = MapTarget{EntryOrder: i + 1, MapTo: snomedReference(code)}
	}

	return &MapEntryMsg{
		Xmlns:          NamespaceMapVersion,
		XmlnsCore:      NamespaceCore,
		XmlnsXSI:       NamespaceXSI,
		SchemaLocation: SchemaLocationMapVersion,
		Heading: Heading{
			ResourceRoot: resourceRoot,
			ResourceURI:  r.serverRoot + "/" + resourceRoot,
			AccessDate:   FormatAccessDate(r.clock.Now()),
		},
		Entry: MapEntry{
			EntryState:     entryStateAct,
			ProcessingRule: allMatches,
			AssertedBy: AssertedBy{
				MapVersion: NameAndURI{
					URI:  umlsBase + "/version/MTH" + r.mapVersion + "/map/" + MapName + "_" + r.mapVersion,
					Name: MapName + "_" + r.mapVersion,
				},
				Map: NameAndURI{
					URI:  umlsBase + "/map/" + MapName,
					Name: MapName,
				},
			},
			MapFrom: EntityReference{
				URI:       umlsBase + "/" + entry.CUI,
				Namespace: cuiNamespace,
				Name:      entry.CUI,
			},
			MapSet: MapSet{
				ProcessingRule: allMatches,
				EntryOrder:     1,
				Targets:        targets,
			},
		},
	}
}

// MapTargetListList builds the document of several entries.
// The entry order keeps counting across entries and is not reset per CUI.
func (r *Renderer) MapTargetListList(entries []mapentry.MapEntry) *MapTargetListList {
	lists := make([]MapTargetList, len(entries))
	n := 0
	for i, entry := range entries {
		targets := make([]MapTargetListEntry, len(entry.Codes))
		for j, code := range entry.Codes {
			n++
			targets[j] = MapTargetListEntry{EntryOrder: n, MapTo: snomedReference(code)}
		}
		lists[i] = MapTargetList{Entries: targets}
	}

	return &MapTargetListList{
		Xmlns:           NamespaceMapEntryServices,
		XmlnsCore:       NamespaceCore,
		XmlnsMapVersion: NamespaceMapVersion,
		XmlnsXSI:        NamespaceXSI,
		SchemaLocation:  SchemaLocationMapEntryServices,
		Entries:         lists,
	}
}

// NotFound builds the document reporting that id is unknown.
func NotFound(id string) *UnknownResourceReference {
	return &UnknownResourceReference{
		Xmlns:          NamespaceExceptions,
		XmlnsCore:      NamespaceCore,
		XmlnsXSI:       NamespaceXSI,
		SchemaLocation: SchemaLocationExceptions,
		ExceptionType:  invalidInput,
		Message:        Message{Value: fmt.Sprintf(notFoundMessage, id)},
		Severity:       severityError,
	}
}

func snomedReference(code string) EntityReference {
	return EntityReference{
		URI:       snomedBase + code,
		Href:      snomedHrefBase + code,
		Namespace: sctidNamespace,
		Name:      code,
	}
}

// Encode writes doc to w as an indented XML document with a declaration.
func Encode(w io.Writer, doc any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("cts2: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Marshal returns the encoded document.
func Marshal(doc any) ([]byte, error) {
	var b strings.Builder
	if err := Encode(&b, doc); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

