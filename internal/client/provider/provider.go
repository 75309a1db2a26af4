// Package provider owns the client-side copies of the five Prodex
// collections and keeps them reconciled with the server: snapshots are
// merged in without clobbering unsynced local edits, local mutations
// are pushed in the background, and deletion tombstones stop a stale
// server read from resurrecting removed items.
package provider

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/TanuSree02/prodex/internal/client/api"
	"github.com/TanuSree02/prodex/internal/client/tombstone"
	"github.com/TanuSree02/prodex/internal/model"
)

// SyncAPI is the server surface the provider drives.
type SyncAPI interface {
	FetchData(ctx context.Context) (*model.Snapshot, error)
	SyncTasks(ctx context.Context, tasks []model.TaskPayload) error
	FullSync(ctx context.Context, payload model.SyncRequest) (*model.SyncResponse, error)
}

const defaultPollInterval = 5 * time.Second

type Options struct {
	PollInterval time.Duration
}

type Provider struct {
	api    SyncAPI
	tombs  *tombstone.Store
	logger *zap.Logger

	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	mu           sync.Mutex
	tasks        []model.TaskPayload
	goals        []model.GoalPayload
	applications []model.ApplicationPayload
	skills       []model.SkillPayload
	settings     model.SettingsPayload

	hydrated bool
	dirty    bool
	closed   bool

	taskState GroupState
	syncState GroupState

	// Consumed once after a server apply so the apply itself does not
	// re-trigger an outbound push of the data that was just pulled.
	suppressTaskPush bool
	suppressSyncPush bool

	tombSets map[string]map[string]bool
}

func New(syncAPI SyncAPI, tombs *tombstone.Store, logger *zap.Logger, opts Options) *Provider {
	interval := opts.PollInterval
	if interval == 0 {
		interval = defaultPollInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Provider{
		api:      syncAPI,
		tombs:    tombs,
		logger:   logger,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		settings: model.DefaultSettings(),
		tombSets: map[string]map[string]bool{
			model.GroupTasks:        {},
			model.GroupGoals:        {},
			model.GroupApplications: {},
			model.GroupSkills:       {},
		},
	}
}

// Hydrate loads the tombstone sets and performs the initial full read.
// A failed read fails open: the provider logs, keeps its empty defaults
// and still counts as hydrated so the caller stays interactive.
func (p *Provider) Hydrate(ctx context.Context) error {
	sets, err := p.tombs.Load(ctx)
	if err != nil {
		p.logger.Warn("Failed to load tombstones, starting empty", zap.Error(err))
	} else {
		p.mu.Lock()
		for _, group := range []string{model.GroupTasks, model.GroupGoals, model.GroupApplications, model.GroupSkills} {
			if sets[group] != nil {
				p.tombSets[group] = sets[group]
			}
		}
		p.mu.Unlock()
	}

	err = p.pullOnce(ctx)

	p.mu.Lock()
	p.hydrated = true
	p.mu.Unlock()

	if err != nil {
		p.logger.Warn("Failed to load data", zap.Error(err))
	}
	return err
}

// Run polls the server at the configured interval until ctx is done.
// A tick is skipped, not queued, while local edits are pending or a
// push is in flight.
func (p *Provider) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// tick runs one poll iteration. It reports false when the poll was
// skipped because local edits are pending or a round-trip is in flight.
func (p *Provider) tick(ctx context.Context) bool {
	p.mu.Lock()
	busy := !p.hydrated || p.dirty ||
		p.taskState != StateIdle || p.syncState != StateIdle
	if busy {
		p.mu.Unlock()
		return false
	}
	p.transition(&p.taskState, StatePulling)
	p.transition(&p.syncState, StatePulling)
	p.mu.Unlock()

	if err := p.pullOnce(ctx); err != nil {
		p.logger.Warn("Failed to load data", zap.Error(err))
	}
	return true
}

// Close discards any in-flight results and waits for pushes to finish.
func (p *Provider) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cancel()
	p.wg.Wait()
}

// Flush waits for in-flight pushes, for shutdown and tests.
func (p *Provider) Flush() {
	p.wg.Wait()
}

func (p *Provider) Tasks() []model.TaskPayload {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.tasks)
}

func (p *Provider) Goals() []model.GoalPayload {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.goals)
}

func (p *Provider) Applications() []model.ApplicationPayload {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.applications)
}

func (p *Provider) Skills() []model.SkillPayload {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.skills)
}

func (p *Provider) Settings() model.SettingsPayload {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings
}

func (p *Provider) Hydrated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hydrated
}

// SetTasks applies a local task mutation and schedules the task-only
// push. Ids that disappear are tombstoned; ids that reappear are
// untombstoned. Both changes persist immediately.
func (p *Provider) SetTasks(update func([]model.TaskPayload) []model.TaskPayload) {
	p.mu.Lock()
	next := update(slices.Clone(p.tasks))
	p.reconcileTombstones(model.GroupTasks,
		idSet(p.tasks, func(t model.TaskPayload) string { return t.ID }),
		idSet(next, func(t model.TaskPayload) string { return t.ID }))
	p.tasks = next
	p.dirty = true
	p.transition(&p.taskState, StatePendingLocalEdit)
	p.mu.Unlock()

	p.triggerTaskPush()
}

func (p *Provider) SetGoals(update func([]model.GoalPayload) []model.GoalPayload) {
	p.mu.Lock()
	next := update(slices.Clone(p.goals))
	p.reconcileTombstones(model.GroupGoals,
		idSet(p.goals, func(g model.GoalPayload) string { return g.ID }),
		idSet(next, func(g model.GoalPayload) string { return g.ID }))
	p.goals = next
	p.dirty = true
	p.transition(&p.syncState, StatePendingLocalEdit)
	p.mu.Unlock()

	p.triggerSyncPush()
}

func (p *Provider) SetApplications(update func([]model.ApplicationPayload) []model.ApplicationPayload) {
	p.mu.Lock()
	next := update(slices.Clone(p.applications))
	p.reconcileTombstones(model.GroupApplications,
		idSet(p.applications, func(a model.ApplicationPayload) string { return a.ID }),
		idSet(next, func(a model.ApplicationPayload) string { return a.ID }))
	p.applications = next
	p.dirty = true
	p.transition(&p.syncState, StatePendingLocalEdit)
	p.mu.Unlock()

	p.triggerSyncPush()
}

func (p *Provider) SetSkills(update func([]model.SkillPayload) []model.SkillPayload) {
	p.mu.Lock()
	next := update(slices.Clone(p.skills))
	p.reconcileTombstones(model.GroupSkills,
		idSet(p.skills, func(s model.SkillPayload) string { return s.ID }),
		idSet(next, func(s model.SkillPayload) string { return s.ID }))
	p.skills = next
	p.dirty = true
	p.transition(&p.syncState, StatePendingLocalEdit)
	p.mu.Unlock()

	p.triggerSyncPush()
}

func (p *Provider) SetSettings(settings model.SettingsPayload) {
	p.mu.Lock()
	p.settings = settings
	p.dirty = true
	p.transition(&p.syncState, StatePendingLocalEdit)
	p.mu.Unlock()

	p.triggerSyncPush()
}

// pullOnce fetches a snapshot and applies it. The result is discarded
// when the provider was closed while the request was in flight.
func (p *Provider) pullOnce(ctx context.Context) error {
	snapshot, err := p.api.FetchData(ctx)

	p.mu.Lock()
	if p.taskState == StatePulling {
		p.transition(&p.taskState, StateIdle)
	}
	if p.syncState == StatePulling {
		p.transition(&p.syncState, StateIdle)
	}
	if err != nil {
		p.mu.Unlock()
		return err
	}
	if p.closed {
		p.mu.Unlock()
		return nil
	}

	p.gcTombstones(ctx, snapshot)
	p.applySnapshotLocked(snapshot)
	p.mu.Unlock()

	// Consume the suppress flags exactly the way a local edit would,
	// so the apply provably cannot start a pull/push feedback loop.
	p.triggerTaskPush()
	p.triggerSyncPush()
	return nil
}

// applySnapshotLocked merges a full server snapshot into local state,
// dropping tombstoned ids so deleted items are not resurrected.
func (p *Provider) applySnapshotLocked(snapshot *model.Snapshot) {
	p.suppressTaskPush = true
	p.suppressSyncPush = true
	p.dirty = false
	p.tasks = filterByIDs(snapshot.Tasks, p.tombSets[model.GroupTasks],
		func(t model.TaskPayload) string { return t.ID })
	p.goals = filterByIDs(snapshot.Goals, p.tombSets[model.GroupGoals],
		func(g model.GoalPayload) string { return g.ID })
	p.applications = filterByIDs(snapshot.Applications, p.tombSets[model.GroupApplications],
		func(a model.ApplicationPayload) string { return a.ID })
	p.skills = filterByIDs(snapshot.Skills, p.tombSets[model.GroupSkills],
		func(s model.SkillPayload) string { return s.ID })
	p.settings = snapshot.Settings
	p.hydrated = true
}

// applyNonTaskLocked merges the authoritative post-write state from a
// full sync response. Tasks are left alone: local task state is already
// authoritative after an edit.
func (p *Provider) applyNonTaskLocked(snapshot model.Snapshot) {
	p.suppressSyncPush = true
	p.goals = filterByIDs(snapshot.Goals, p.tombSets[model.GroupGoals],
		func(g model.GoalPayload) string { return g.ID })
	p.applications = filterByIDs(snapshot.Applications, p.tombSets[model.GroupApplications],
		func(a model.ApplicationPayload) string { return a.ID })
	p.skills = filterByIDs(snapshot.Skills, p.tombSets[model.GroupSkills],
		func(s model.SkillPayload) string { return s.ID })
	p.settings = snapshot.Settings
	p.hydrated = true
}

func (p *Provider) triggerTaskPush() {
	p.wg.Add(1)
	go p.pushTasksOnce()
}

func (p *Provider) triggerSyncPush() {
	p.wg.Add(1)
	go p.pushSyncOnce()
}

// pushTasksOnce sends the whole task collection to the task endpoint,
// falling back to the full sync endpoint on a rejected response to keep
// task persistence working. The response is not applied back.
func (p *Provider) pushTasksOnce() {
	defer p.wg.Done()

	p.mu.Lock()
	if !p.hydrated || p.closed {
		p.mu.Unlock()
		return
	}
	if p.suppressTaskPush {
		p.suppressTaskPush = false
		if p.taskState == StatePendingLocalEdit {
			p.transition(&p.taskState, StateIdle)
		}
		p.mu.Unlock()
		return
	}
	tasks := slices.Clone(p.tasks)
	goals := slices.Clone(p.goals)
	applications := slices.Clone(p.applications)
	skills := slices.Clone(p.skills)
	settings := p.settings
	p.transition(&p.taskState, StatePushing)
	p.mu.Unlock()

	err := p.api.SyncTasks(p.ctx, tasks)
	var statusErr *api.StatusError
	if err != nil && errors.As(err, &statusErr) {
		p.logger.Warn("Task sync rejected, falling back to full sync",
			zap.Int("status", statusErr.StatusCode),
		)
		_, err = p.api.FullSync(p.ctx, model.SyncRequest{
			Tasks:        tasks,
			Goals:        goals,
			Applications: applications,
			Skills:       skills,
			Settings:     &settings,
		})
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.logger.Warn("Sync failed", zap.Error(err))
	} else if !p.closed {
		p.dirty = false
	}
	p.transition(&p.taskState, StateIdle)
}

// pushSyncOnce sends goals, applications, skills and settings (tasks
// excluded) and applies the server's post-write state back into local
// state, since derived values like goal progress are authoritative on
// the server for this path.
func (p *Provider) pushSyncOnce() {
	defer p.wg.Done()

	p.mu.Lock()
	if !p.hydrated || p.closed {
		p.mu.Unlock()
		return
	}
	if p.suppressSyncPush {
		p.suppressSyncPush = false
		if p.syncState == StatePendingLocalEdit {
			p.transition(&p.syncState, StateIdle)
		}
		p.mu.Unlock()
		return
	}
	settings := p.settings
	payload := model.SyncRequest{
		Tasks:        []model.TaskPayload{},
		Goals:        slices.Clone(p.goals),
		Applications: slices.Clone(p.applications),
		Skills:       slices.Clone(p.skills),
		Settings:     &settings,
	}
	p.transition(&p.syncState, StatePushing)
	p.mu.Unlock()

	resp, err := p.api.FullSync(p.ctx, payload)

	p.mu.Lock()
	if err != nil {
		p.logger.Warn("Sync failed", zap.Error(err))
		p.transition(&p.syncState, StateIdle)
		p.mu.Unlock()
		return
	}
	if p.closed {
		p.transition(&p.syncState, StateIdle)
		p.mu.Unlock()
		return
	}
	if len(resp.Warnings) > 0 {
		p.logger.Warn("Sync reported group failures", zap.Strings("warnings", resp.Warnings))
	}
	p.applyNonTaskLocked(resp.Data)
	p.dirty = false
	p.transition(&p.syncState, StateIdle)
	p.mu.Unlock()

	p.triggerSyncPush()
}

// reconcileTombstones updates one group's tombstone set from the
// symmetric difference of the previous and next id sets, persisting
// best-effort right away so a reload cannot resurrect the items.
func (p *Provider) reconcileTombstones(group string, prev, next map[string]bool) {
	set := p.tombSets[group]
	for id := range prev {
		if !next[id] && !set[id] {
			set[id] = true
			if err := p.tombs.Add(p.ctx, group, id); err != nil {
				p.logger.Warn("Failed to persist tombstone",
					zap.Error(err),
					zap.String("group", group),
					zap.String("id", id),
				)
			}
		}
	}
	for id := range next {
		if set[id] {
			delete(set, id)
			if err := p.tombs.Remove(p.ctx, group, id); err != nil {
				p.logger.Warn("Failed to clear tombstone",
					zap.Error(err),
					zap.String("group", group),
					zap.String("id", id),
				)
			}
		}
	}
}

// gcTombstones records one confirmed-absence pass per group against a
// fresh snapshot and expires tombstones the server has stopped
// mentioning for long enough.
func (p *Provider) gcTombstones(ctx context.Context, snapshot *model.Snapshot) {
	groups := []struct {
		name    string
		present map[string]bool
	}{
		{model.GroupTasks, idSet(snapshot.Tasks, func(t model.TaskPayload) string { return t.ID })},
		{model.GroupGoals, idSet(snapshot.Goals, func(g model.GoalPayload) string { return g.ID })},
		{model.GroupApplications, idSet(snapshot.Applications, func(a model.ApplicationPayload) string { return a.ID })},
		{model.GroupSkills, idSet(snapshot.Skills, func(s model.SkillPayload) string { return s.ID })},
	}
	for _, g := range groups {
		expired, err := p.tombs.RecordSnapshot(ctx, g.name, g.present)
		if err != nil {
			p.logger.Warn("Tombstone GC failed", zap.Error(err), zap.String("group", g.name))
			continue
		}
		for _, id := range expired {
			delete(p.tombSets[g.name], id)
		}
	}
}

func (p *Provider) transition(state *GroupState, to GroupState) {
	if *state == to {
		return
	}
	if !validTransitions[*state][to] {
		p.logger.Debug("Unexpected sync state transition",
			zap.String("from", (*state).String()),
			zap.String("to", to.String()),
		)
	}
	*state = to
}

func idSet[T any](items []T, id func(T) string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[id(item)] = true
	}
	return set
}

func filterByIDs[T any](items []T, tombstoned map[string]bool, id func(T) string) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		if !tombstoned[id(item)] {
			result = append(result, item)
		}
	}
	return result
}
