package store

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"formbuddy/internal/model"
)

// TaskStore owns the task collection and writes it through to a BlobStore on every mutation.
//
// It is not safe for concurrent use; the CLI and the TUI drive it from a single goroutine.
type TaskStore struct {
	blobs BlobStore
	key   string
	now   func() time.Time
	log   *zap.SugaredLogger
	seed  []model.Fields

	tasks  []model.Task
	loaded bool
}

type Option func(*TaskStore)

func WithKey(key string) Option {
	return func(s *TaskStore) {
		if k := strings.TrimSpace(key); k != "" {
			s.key = k
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *TaskStore) {
		if log != nil {
			s.log = log
		}
	}
}

func WithSeed(seed []model.Fields) Option {
	return func(s *TaskStore) { s.seed = seed }
}

func NewTaskStore(blobs BlobStore, opts ...Option) *TaskStore {
	s := &TaskStore{
		blobs: blobs,
		key:   DefaultKey,
		now:   time.Now,
		log:   zap.NewNop().Sugar(),
		seed:  DefaultSeed(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key is the blob name the collection is persisted under.
func (s *TaskStore) Key() string { return s.key }

type LoadResult struct {
	Count     int  `json:"count"`
	Seeded    bool `json:"seeded"`
	Recovered bool `json:"recovered"`
	// CorruptKey names the blob the unreadable data was copied to, if any.
	CorruptKey string `json:"corruptKey,omitempty"`
}

// Load reads the persisted collection. A missing blob is seeded with DefaultSeed; a corrupt one is
// copied aside (see keepCorrupt), logged, and replaced by the seed.
func (s *TaskStore) Load(ctx context.Context) (LoadResult, error) {
	raw, ok, err := s.blobs.Get(ctx, s.key)
	if err != nil {
		return LoadResult{}, err
	}

	var res LoadResult
	var tasks []model.Task
	absent := !ok
	if ok {
		var decodeErr error
		tasks, absent, decodeErr = decodeTasks(raw)
		if decodeErr != nil {
			res.CorruptKey = s.keepCorrupt(ctx, raw)
			s.log.Warnw("persisted tasks are corrupt; reseeding", "key", s.key, "copy", res.CorruptKey, "error", decodeErr)
			absent = true
			res.Recovered = true
		}
	}

	if absent {
		seeded, err := s.seedTasks()
		if err != nil {
			return LoadResult{}, err
		}
		if err := s.commit(ctx, seeded); err != nil {
			return LoadResult{}, err
		}
		res.Seeded = true
		s.log.Infow("seeded default tasks", "key", s.key, "count", len(seeded))
	} else {
		s.tasks = tasks
	}
	s.loaded = true
	res.Count = len(s.tasks)
	s.log.Debugw("loaded tasks", "key", s.key, "count", res.Count)
	return res, nil
}

// keepCorrupt copies raw to <key>.corrupt, or to <key>.corrupt.<timestamp> when an earlier copy
// already occupies that name. It returns "" if the copy could not be written.
func (s *TaskStore) keepCorrupt(ctx context.Context, raw []byte) string {
	name := s.key + ".corrupt"
	if _, exists, err := s.blobs.Get(ctx, name); err != nil || exists {
		name += "." + s.now().UTC().Format("20060102T150405.000000000")
		if _, taken, err := s.blobs.Get(ctx, name); err == nil && taken {
			name += "-" + newTaskID(nil)[:8]
		}
	}
	if err := s.blobs.Put(ctx, name, raw); err != nil {
		s.log.Errorw("could not keep a copy of the corrupt blob", "key", name, "error", err)
		return ""
	}
	return name
}

func (s *TaskStore) seedTasks() ([]model.Task, error) {
	out := make([]model.Task, 0, len(s.seed))
	for _, f := range s.seed {
		f = f.Normalize()
		if err := f.Validate(); err != nil {
			return nil, err
		}
		now := s.now().UTC()
		out = append(out, model.Task{
			ID:          newTaskID(out),
			FormName:    f.FormName,
			FormNumber:  f.FormNumber,
			Description: f.Description,
			Deadline:    f.Deadline,
			Frequency:   f.Frequency,
			Status:      f.Status,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return out, nil
}

// List returns a copy of the collection in no guaranteed order.
func (s *TaskStore) List() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *TaskStore) Get(id string) (model.Task, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return model.Task{}, false
}

func (s *TaskStore) Add(ctx context.Context, f model.Fields) (model.Task, error) {
	if !s.loaded {
		return model.Task{}, errNotLoaded
	}
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return model.Task{}, err
	}

	now := s.now().UTC()
	t := model.Task{
		ID:          newTaskID(s.tasks),
		FormName:    f.FormName,
		FormNumber:  f.FormNumber,
		Description: f.Description,
		Deadline:    f.Deadline,
		Frequency:   f.Frequency,
		Status:      f.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	next := append(s.List(), t)
	if err := s.commit(ctx, next); err != nil {
		return model.Task{}, err
	}
	s.log.Debugw("task added", "id", t.ID, "form", t.FormNumber)
	return t, nil
}

// Update merges p into the task with id and bumps UpdatedAt. Unknown ids are reported as NotFoundError.
func (s *TaskStore) Update(ctx context.Context, id string, p model.Patch) (model.Task, error) {
	if !s.loaded {
		return model.Task{}, errNotLoaded
	}
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, NotFoundError{Kind: "task", ID: id}
	}
	if err := p.Validate(); err != nil {
		return model.Task{}, err
	}

	next := s.List()
	t := next[i]
	p.Apply(&t)
	t.UpdatedAt = s.stamp(t.UpdatedAt)
	next[i] = t
	if err := s.commit(ctx, next); err != nil {
		return model.Task{}, err
	}
	s.log.Debugw("task updated", "id", t.ID, "status", t.Status)
	return t, nil
}

func (s *TaskStore) UpdateStatus(ctx context.Context, id string, status model.Status) (model.Task, error) {
	return s.Update(ctx, id, model.Patch{Status: &status})
}

// Delete removes the task with id and returns it. Unknown ids are reported as NotFoundError.
func (s *TaskStore) Delete(ctx context.Context, id string) (model.Task, error) {
	if !s.loaded {
		return model.Task{}, errNotLoaded
	}
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, NotFoundError{Kind: "task", ID: id}
	}
	removed := s.tasks[i]
	next := make([]model.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	if err := s.commit(ctx, next); err != nil {
		return model.Task{}, err
	}
	s.log.Debugw("task deleted", "id", removed.ID, "form", removed.FormNumber)
	return removed, nil
}

// commit persists next and, only once the write succeeded, makes it the live collection.
func (s *TaskStore) commit(ctx context.Context, next []model.Task) error {
	b, err := encodeTasks(next)
	if err != nil {
		return &PersistError{Key: s.key, Err: err}
	}
	if err := s.blobs.Put(ctx, s.key, b); err != nil {
		s.log.Errorw("persist failed", "key", s.key, "error", err)
		return &PersistError{Key: s.key, Err: err}
	}
	s.tasks = next
	return nil
}

// stamp returns the current time, forced strictly after prev so UpdatedAt always moves forward.
func (s *TaskStore) stamp(prev time.Time) time.Time {
	now := s.now().UTC()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now
}

func (s *TaskStore) indexOf(id string) int {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1
	}
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
