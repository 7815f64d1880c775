package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"inflationdash/domain/chart"
	"inflationdash/domain/core"
	"inflationdash/domain/dataset"
	"inflationdash/internal/chartspec"
	datastore "inflationdash/internal/dataset"
	"inflationdash/internal/errors"
	"inflationdash/internal/filter"
	"inflationdash/internal/profiling"
	"inflationdash/internal/reactive"
	"inflationdash/internal/session"
)

// DashboardOptions tunes the dashboard service
type DashboardOptions struct {
	DefaultEntity string
	IdleTTL       time.Duration
	// LenientSelection accepts any entity some dataset mentions, not only
	// those with primary rows
	LenientSelection bool
}

// chartNodes are the three derived nodes registered for each descriptor
type chartNodes struct {
	desc  chart.Descriptor
	view  reactive.Key[filter.View]
	chart reactive.Key[chart.Spec]
	table reactive.Key[profiling.Table]
}

// DashboardService wires the loaded datasets and chart catalog into a
// derived-value blueprint and serves per-session reads and selection writes.
type DashboardService struct {
	store    *datastore.Store
	catalog  *chartspec.Catalog
	sessions *session.Manager

	blueprint     *reactive.Blueprint
	timeRange     reactive.Key[core.TimeRange]
	note          reactive.Key[string]
	charts        []chartNodes
	byID          map[core.ChartID]int
	defaultEntity string
	validate      reactive.Validator
}

// SessionState is the current scalar state of one session
type SessionState struct {
	ID         core.SessionID `json:"id"`
	Entity     string         `json:"entity"`
	Generation uint64         `json:"generation"`
	TimeRange  []string       `json:"time_range"`
	NoData     bool           `json:"no_data"`
	Note       string         `json:"note"`
}

// Snapshot is every derived value for one selection, read consistently
type Snapshot struct {
	Entity    string
	TimeRange core.TimeRange
	Note      string
	Charts    []chart.Spec
	Tables    []profiling.Table
	Views     map[core.ChartID]filter.View
}

func NewDashboardService(store *datastore.Store, catalog *chartspec.Catalog, opts DashboardOptions) (*DashboardService, error) {
	s := &DashboardService{
		store:     store,
		catalog:   catalog,
		blueprint: reactive.NewBlueprint(),
		byID:      make(map[core.ChartID]int, catalog.Len()),
	}

	entities := store.Entities()
	if len(entities) == 0 {
		return nil, errors.LoadError(dataset.Primary.String(), core.ErrEmptySource)
	}
	s.validate = store.ValidateEntity
	if opts.LenientSelection {
		s.validate = store.ValidateKnownEntity
	}

	s.defaultEntity = opts.DefaultEntity
	if !store.HasEntity(s.defaultEntity) {
		log.Printf("[Dashboard] default entity %q not in dataset, using %q", opts.DefaultEntity, entities[0])
		s.defaultEntity = entities[0]
	}

	if err := s.register(); err != nil {
		return nil, err
	}
	s.sessions = session.NewManager(s.newGraph, opts.IdleTTL)

	log.Printf("[Dashboard] registered %d derived nodes for %d charts", len(s.blueprint.Names()), len(s.charts))
	return s, nil
}

// register declares every derived node on the blueprint
func (s *DashboardService) register() error {
	primary := s.store.Primary()
	notes := s.store.Notes()

	var err error
	s.timeRange, err = reactive.Define(s.blueprint, "timeRange", reactive.On(reactive.Selection),
		func(sc *reactive.Scope) (core.TimeRange, error) {
			return filter.TimeSpan(primary, sc.Selection()), nil
		})
	if err != nil {
		return errors.Wrap(err, "register time range")
	}

	s.note, err = reactive.Define(s.blueprint, "note", reactive.On(reactive.Selection, s.timeRange),
		func(sc *reactive.Scope) (string, error) {
			tr, err := reactive.Read(sc, s.timeRange)
			if err != nil {
				return "", err
			}
			return ComposeNote(sc.Selection(), tr, notes), nil
		})
	if err != nil {
		return errors.Wrap(err, "register note")
	}

	for _, desc := range s.catalog.Descriptors() {
		nodes, err := s.registerChart(desc)
		if err != nil {
			return err
		}
		s.byID[desc.ID] = len(s.charts)
		s.charts = append(s.charts, nodes)
	}
	return nil
}

func (s *DashboardService) registerChart(desc chart.Descriptor) (chartNodes, error) {
	ds, err := s.store.Dataset(desc.Source)
	if err != nil {
		return chartNodes{}, errors.Wrapf(err, "chart %s", desc.ID)
	}

	nodes := chartNodes{desc: desc}
	nodes.view, err = reactive.Define(s.blueprint, "view:"+desc.ID.String(), reactive.On(reactive.Selection),
		func(sc *reactive.Scope) (filter.View, error) {
			q, err := chartspec.QueryFor(desc, sc.Selection())
			if err != nil {
				return filter.View{}, err
			}
			return filter.Apply(ds, q), nil
		})
	if err != nil {
		return chartNodes{}, errors.Wrapf(err, "register view %s", desc.ID)
	}

	nodes.chart, err = reactive.Define(s.blueprint, "chart:"+desc.ID.String(), reactive.On(nodes.view),
		func(sc *reactive.Scope) (chart.Spec, error) {
			v, err := reactive.Read(sc, nodes.view)
			if err != nil {
				return chart.Spec{}, err
			}
			return chartspec.Build(desc, v), nil
		})
	if err != nil {
		return chartNodes{}, errors.Wrapf(err, "register chart %s", desc.ID)
	}

	nodes.table, err = reactive.Define(s.blueprint, "table:"+desc.ID.String(), reactive.On(nodes.view),
		func(sc *reactive.Scope) (profiling.Table, error) {
			v, err := reactive.Read(sc, nodes.view)
			if err != nil {
				return profiling.Table{}, err
			}
			return profiling.ProfileView(desc, v), nil
		})
	if err != nil {
		return chartNodes{}, errors.Wrapf(err, "register table %s", desc.ID)
	}
	return nodes, nil
}

func (s *DashboardService) newGraph() (*reactive.Graph, error) {
	return s.blueprint.NewGraph(s.defaultEntity, s.validate)
}

// ComposeNote renders the availability note shown under the entity selector
func ComposeNote(entity string, tr core.TimeRange, notes dataset.Notes) string {
	if tr.NoData {
		return fmt.Sprintf("Notes: No data are available for %s.", entity)
	}
	labels := tr.Labels()
	note := fmt.Sprintf("Notes: Data are available for %s from %s through %s.", entity, labels[0], labels[1])
	if extra, ok := notes.Lookup(entity); ok && strings.TrimSpace(extra) != "" {
		note += " " + strings.TrimSpace(extra)
	}
	return note
}

// ============================================================================
// CATALOG ACCESSORS
// ============================================================================

// Entities lists selectable entities in dataset order
func (s *DashboardService) Entities() []string { return s.store.Entities() }

// DefaultEntity is the selection new sessions start with
func (s *DashboardService) DefaultEntity() string { return s.defaultEntity }

// Descriptors lists chart descriptors in catalog order
func (s *DashboardService) Descriptors() []chart.Descriptor { return s.catalog.Descriptors() }

// NodeNames lists the registered derived nodes
func (s *DashboardService) NodeNames() []string { return s.blueprint.Names() }

// ============================================================================
// SESSIONS
// ============================================================================

// CreateSession opens a session selecting the default entity
func (s *DashboardService) CreateSession(ctx context.Context) (SessionState, error) {
	sess, err := s.sessions.Create(ctx)
	if err != nil {
		return SessionState{}, errors.Wrap(err, "create session")
	}
	log.Printf("[Session] created %s (%s)", sess.ID, s.defaultEntity)
	return s.state(sess)
}

// Session returns the state of an existing session
func (s *DashboardService) Session(id core.SessionID) (SessionState, error) {
	sess, err := s.session(id)
	if err != nil {
		return SessionState{}, err
	}
	return s.state(sess)
}

// CloseSession discards a session
func (s *DashboardService) CloseSession(id core.SessionID) error {
	if err := s.sessions.Close(id); err != nil {
		return errors.WithCode(errors.CodeNotFound, err)
	}
	return nil
}

// SessionExists reports a NOT_FOUND error for unknown or expired sessions
func (s *DashboardService) SessionExists(id core.SessionID) error {
	_, err := s.session(id)
	return err
}

// Select writes the session's selection. An unknown entity is rejected and
// the session keeps its previous selection and caches.
func (s *DashboardService) Select(id core.SessionID, entity string) (SessionState, error) {
	sess, err := s.session(id)
	if err != nil {
		return SessionState{}, err
	}
	if err := sess.Graph.Select(entity); err != nil {
		return SessionState{}, errors.InvalidSelection(entity, err)
	}
	return s.state(sess)
}

func (s *DashboardService) session(id core.SessionID) (*session.Session, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, errors.WithCode(errors.CodeNotFound, err)
	}
	return sess, nil
}

func (s *DashboardService) state(sess *session.Session) (SessionState, error) {
	st := SessionState{ID: sess.ID}
	err := sess.Graph.View(func(sc *reactive.Scope) error {
		tr, err := reactive.Read(sc, s.timeRange)
		if err != nil {
			return err
		}
		note, err := reactive.Read(sc, s.note)
		if err != nil {
			return err
		}
		st.Entity = sc.Selection()
		st.Generation = sc.Generation()
		st.TimeRange = tr.Labels()
		st.NoData = tr.NoData
		st.Note = note
		return nil
	})
	if err != nil {
		return SessionState{}, errors.Wrap(err, "read session state")
	}
	return st, nil
}

// ============================================================================
// DERIVED VALUE ACCESSORS
// ============================================================================

// TimeRange returns the selected entity's data span
func (s *DashboardService) TimeRange(id core.SessionID) (core.TimeRange, error) {
	sess, err := s.session(id)
	if err != nil {
		return core.TimeRange{}, err
	}
	return reactive.Get(sess.Graph, s.timeRange)
}

// Note returns the availability note for the selected entity
func (s *DashboardService) Note(id core.SessionID) (string, error) {
	sess, err := s.session(id)
	if err != nil {
		return "", err
	}
	return reactive.Get(sess.Graph, s.note)
}

// Chart returns one chart spec for the selected entity
func (s *DashboardService) Chart(id core.SessionID, chartID core.ChartID) (chart.Spec, error) {
	nodes, err := s.nodes(chartID)
	if err != nil {
		return chart.Spec{}, err
	}
	sess, err := s.session(id)
	if err != nil {
		return chart.Spec{}, err
	}
	spec, err := reactive.Get(sess.Graph, nodes.chart)
	if err != nil {
		return chart.Spec{}, errors.Wrapf(err, "build chart %s", chartID)
	}
	return spec, nil
}

// Charts returns every chart spec in catalog order, all for the same selection
func (s *DashboardService) Charts(id core.SessionID) ([]chart.Spec, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	specs := make([]chart.Spec, 0, len(s.charts))
	err = sess.Graph.View(func(sc *reactive.Scope) error {
		for _, n := range s.charts {
			spec, err := reactive.Read(sc, n.chart)
			if err != nil {
				return fmt.Errorf("build chart %s: %w", n.desc.ID, err)
			}
			specs = append(specs, spec)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "build charts")
	}
	return specs, nil
}

// Table returns the summary table behind one chart
func (s *DashboardService) Table(id core.SessionID, chartID core.ChartID) (profiling.Table, error) {
	nodes, err := s.nodes(chartID)
	if err != nil {
		return profiling.Table{}, err
	}
	sess, err := s.session(id)
	if err != nil {
		return profiling.Table{}, err
	}
	table, err := reactive.Get(sess.Graph, nodes.table)
	if err != nil {
		return profiling.Table{}, errors.Wrapf(err, "build table %s", chartID)
	}
	return table, nil
}

// Snapshot reads every derived value of a session under one selection
func (s *DashboardService) Snapshot(id core.SessionID) (*Snapshot, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	return s.snapshot(sess.Graph)
}

// SnapshotFor evaluates every derived value for entity on a throwaway graph
func (s *DashboardService) SnapshotFor(entity string) (*Snapshot, error) {
	g, err := s.blueprint.NewGraph(entity, s.validate)
	if err != nil {
		return nil, errors.InvalidSelection(entity, err)
	}
	return s.snapshot(g)
}

func (s *DashboardService) snapshot(g *reactive.Graph) (*Snapshot, error) {
	snap := &Snapshot{Views: make(map[core.ChartID]filter.View, len(s.charts))}
	err := g.View(func(sc *reactive.Scope) error {
		var err error
		snap.Entity = sc.Selection()
		if snap.TimeRange, err = reactive.Read(sc, s.timeRange); err != nil {
			return err
		}
		if snap.Note, err = reactive.Read(sc, s.note); err != nil {
			return err
		}
		for _, n := range s.charts {
			view, err := reactive.Read(sc, n.view)
			if err != nil {
				return err
			}
			spec, err := reactive.Read(sc, n.chart)
			if err != nil {
				return err
			}
			table, err := reactive.Read(sc, n.table)
			if err != nil {
				return err
			}
			snap.Views[n.desc.ID] = view
			snap.Charts = append(snap.Charts, spec)
			snap.Tables = append(snap.Tables, table)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "evaluate snapshot")
	}
	return snap, nil
}

// Stats returns per-node compute counts for a session
func (s *DashboardService) Stats(id core.SessionID) (map[string]int, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	return sess.Graph.Stats(), nil
}

func (s *DashboardService) nodes(chartID core.ChartID) (chartNodes, error) {
	i, ok := s.byID[chartID]
	if !ok {
		return chartNodes{}, errors.WithCode(errors.CodeNotFound, fmt.Errorf("%w: %s", core.ErrUnknownChart, chartID))
	}
	return s.charts[i], nil
}
