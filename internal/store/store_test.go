package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"formbuddy/internal/model"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newLoadedStore(t *testing.T, blobs BlobStore, clock *fakeClock) *TaskStore {
	t.Helper()
	s := NewTaskStore(blobs, WithClock(clock.Now))
	if _, err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func sampleFields() model.Fields {
	return model.Fields{
		FormName:   "Monthly VAT Declaration",
		FormNumber: "2550M",
		Deadline:   model.MustDate("2025-02-20"),
		Frequency:  model.FrequencyMonthly,
	}
}

func TestLoad_SeedsDefaultsWhenBlobMissing(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobs()
	clock := &fakeClock{t: time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)}

	s := NewTaskStore(blobs, WithClock(clock.Now))
	res, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !res.Seeded || res.Recovered || res.Count != 3 {
		t.Fatalf("unexpected load result: %+v", res)
	}

	raw, ok, _ := blobs.Get(ctx, DefaultKey)
	if !ok || len(raw) == 0 {
		t.Fatalf("expected seed to be persisted immediately")
	}

	ids := map[string]bool{}
	for _, task := range s.List() {
		if task.ID == "" || ids[task.ID] {
			t.Fatalf("expected unique non-empty ids; got %q", task.ID)
		}
		ids[task.ID] = true
		if !task.CreatedAt.Equal(clock.t) || !task.UpdatedAt.Equal(clock.t) {
			t.Fatalf("expected seed timestamps at clock time; got %v/%v", task.CreatedAt, task.UpdatedAt)
		}
	}
}

func TestLoad_EmptyArrayIsNotReseeded(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobs()
	_ = blobs.Put(ctx, DefaultKey, []byte("[]"))

	s := NewTaskStore(blobs)
	res, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Seeded || len(s.List()) != 0 {
		t.Fatalf("expected an empty collection to stay empty; got %+v", res)
	}
}

func TestLoad_CorruptBlobIsKeptAndReseeded(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobs()
	corrupt := []byte(`[{"id":"x","formName":"A","formNumber":"1","deadline":"2025-01-20","frequency":"monthly","status":"bogus"}]`)
	_ = blobs.Put(ctx, DefaultKey, corrupt)

	s := NewTaskStore(blobs)
	res, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !res.Recovered || !res.Seeded {
		t.Fatalf("expected recovery + reseed; got %+v", res)
	}
	kept, ok, _ := blobs.Get(ctx, DefaultKey+".corrupt")
	if !ok || string(kept) != string(corrupt) {
		t.Fatalf("expected corrupt blob to be kept verbatim; got %q", kept)
	}
	if len(s.List()) != len(DefaultSeed()) {
		t.Fatalf("expected default seed; got %d tasks", len(s.List()))
	}
}

func TestLoad_DuplicateIDsCountAsCorrupt(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobs()
	dup := []byte(`[
		{"id":"a","formName":"A","formNumber":"1","deadline":"2025-01-20","frequency":"monthly","status":"completed","createdAt":"2025-01-01T00:00:00Z","updatedAt":"2025-01-01T00:00:00Z"},
		{"id":"a","formName":"B","formNumber":"2","deadline":"2025-01-21","frequency":"monthly","status":"completed","createdAt":"2025-01-01T00:00:00Z","updatedAt":"2025-01-01T00:00:00Z"}
	]`)
	_ = blobs.Put(ctx, DefaultKey, dup)

	res, err := NewTaskStore(blobs).Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !res.Recovered {
		t.Fatalf("expected duplicate ids to trigger recovery")
	}
}

func TestLoad_InvalidRecordsCountAsCorrupt(t *testing.T) {
	const stamps = `"createdAt":"2025-01-01T00:00:00Z","updatedAt":"2025-01-01T00:00:00Z"`
	cases := []struct {
		name string
		rec  string
	}{
		{"missing status", `{"id":"a","formName":"A","formNumber":"1","deadline":"2025-01-20","frequency":"monthly",` + stamps + `}`},
		{"missing frequency", `{"id":"a","formName":"A","formNumber":"1","deadline":"2025-01-20","status":"completed",` + stamps + `}`},
		{"missing both enums", `{"id":"a","formName":"A","formNumber":"1","deadline":"2025-01-20",` + stamps + `}`},
		{"unknown frequency", `{"id":"a","formName":"A","formNumber":"1","deadline":"2025-01-20","frequency":"weekly","status":"completed",` + stamps + `}`},
		{"missing deadline", `{"id":"a","formName":"A","formNumber":"1","frequency":"monthly","status":"completed",` + stamps + `}`},
		{"missing form number", `{"id":"a","formName":"A","deadline":"2025-01-20","frequency":"monthly","status":"completed",` + stamps + `}`},
		{"missing createdAt", `{"id":"a","formName":"A","formNumber":"1","deadline":"2025-01-20","frequency":"monthly","status":"completed","updatedAt":"2025-01-01T00:00:00Z"}`},
		{"missing updatedAt", `{"id":"a","formName":"A","formNumber":"1","deadline":"2025-01-20","frequency":"monthly","status":"completed","createdAt":"2025-01-01T00:00:00Z"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			blobs := NewMemoryBlobs()
			raw := []byte("[" + tc.rec + "]")
			_ = blobs.Put(ctx, DefaultKey, raw)

			s := NewTaskStore(blobs)
			res, err := s.Load(ctx)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if !res.Recovered || !res.Seeded {
				t.Fatalf("expected recovery + reseed; got %+v", res)
			}
			for _, task := range s.List() {
				if !task.Status.Valid() || !task.Frequency.Valid() {
					t.Fatalf("loaded task with invalid enum: %+v", task)
				}
			}
			if doc := s.Doctor(ctx); doc.HasErrors() {
				t.Fatalf("expected a clean blob after reseeding; got %+v", doc.Issues)
			}
		})
	}
}

func TestLoad_ValidRecordIsNotReseeded(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobs()
	_ = blobs.Put(ctx, DefaultKey, []byte(`[{"id":"a","formName":"A","formNumber":"1","deadline":"2025-01-20","frequency":"monthly","status":"completed","createdAt":"2025-01-01T00:00:00Z","updatedAt":"2025-01-01T00:00:00Z"}]`))

	res, err := NewTaskStore(blobs).Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Recovered || res.Seeded || res.Count != 1 {
		t.Fatalf("expected the stored record to load as-is; got %+v", res)
	}
}

func TestLoad_SecondCorruptionKeepsEarlierCopy(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobs()
	clock := &fakeClock{t: time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)}

	first := []byte(`{first`)
	_ = blobs.Put(ctx, DefaultKey, first)
	res1, err := NewTaskStore(blobs, WithClock(clock.Now)).Load(ctx)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if res1.CorruptKey != DefaultKey+".corrupt" {
		t.Fatalf("expected first copy at %s.corrupt; got %q", DefaultKey, res1.CorruptKey)
	}

	second := []byte(`{second`)
	_ = blobs.Put(ctx, DefaultKey, second)
	clock.Advance(time.Minute)
	res2, err := NewTaskStore(blobs, WithClock(clock.Now)).Load(ctx)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if res2.CorruptKey == "" || res2.CorruptKey == res1.CorruptKey {
		t.Fatalf("expected a distinct copy for the second corruption; got %q", res2.CorruptKey)
	}

	kept1, _, _ := blobs.Get(ctx, res1.CorruptKey)
	kept2, _, _ := blobs.Get(ctx, res2.CorruptKey)
	if string(kept1) != string(first) || string(kept2) != string(second) {
		t.Fatalf("expected both corrupt blobs kept; got %q and %q", kept1, kept2)
	}
}

func TestAdd_AppendsOneRecordWithFreshID(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)}
	s := newLoadedStore(t, NewMemoryBlobs(), clock)
	before := s.List()

	clock.Advance(time.Minute)
	got, err := s.Add(ctx, sampleFields())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	after := s.List()
	if len(after) != len(before)+1 {
		t.Fatalf("expected exactly one new record; before=%d after=%d", len(before), len(after))
	}
	for _, old := range before {
		if old.ID == got.ID {
			t.Fatalf("new id %q collides with existing task", got.ID)
		}
	}
	if got.FormNumber != "2550M" || got.FormName != "Monthly VAT Declaration" || got.Status != model.StatusNotStarted {
		t.Fatalf("unexpected stored fields: %+v", got)
	}
	if !got.CreatedAt.Equal(clock.t) || !got.CreatedAt.Equal(got.UpdatedAt) {
		t.Fatalf("expected createdAt == updatedAt == now; got %v/%v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestAdd_RejectsMissingRequiredFields(t *testing.T) {
	s := newLoadedStore(t, NewMemoryBlobs(), &fakeClock{t: time.Now()})
	n := len(s.List())

	for _, f := range []model.Fields{
		{FormNumber: "1701", Deadline: model.MustDate("2025-04-15")},
		{FormName: "Annual", Deadline: model.MustDate("2025-04-15")},
		{FormName: "Annual", FormNumber: "1701"},
	} {
		_, err := s.Add(context.Background(), f)
		var ve *model.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected validation error for %+v; got %v", f, err)
		}
	}
	if len(s.List()) != n {
		t.Fatalf("expected no state change on validation failure")
	}
}

func TestUpdate_StatusBumpsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)}
	s := newLoadedStore(t, NewMemoryBlobs(), clock)
	task, _ := s.Add(ctx, sampleFields())

	clock.Advance(time.Hour)
	completed := model.StatusCompleted
	got, err := s.Update(ctx, task.ID, model.Patch{Status: &completed})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Status != model.StatusCompleted {
		t.Fatalf("expected completed; got %q", got.Status)
	}
	if !got.UpdatedAt.After(task.UpdatedAt) {
		t.Fatalf("expected updatedAt to increase; before=%v after=%v", task.UpdatedAt, got.UpdatedAt)
	}
	if got.FormName != task.FormName || !got.CreatedAt.Equal(task.CreatedAt) {
		t.Fatalf("expected untouched fields to be preserved; got %+v", got)
	}
	listed, _ := s.Get(task.ID)
	if listed.Status != model.StatusCompleted {
		t.Fatalf("expected list snapshot to reflect update")
	}
}

func TestUpdate_UpdatedAtStrictlyIncreasesWithFrozenClock(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)}
	s := newLoadedStore(t, NewMemoryBlobs(), clock)
	task, _ := s.Add(ctx, sampleFields())

	got, err := s.UpdateStatus(ctx, task.ID, model.StatusInProgress)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if !got.UpdatedAt.After(task.UpdatedAt) {
		t.Fatalf("expected updatedAt to move forward even without clock progress")
	}
	for _, tk := range s.List() {
		if tk.UpdatedAt.Before(tk.CreatedAt) {
			t.Fatalf("createdAt <= updatedAt violated for %s", tk.ID)
		}
	}
}

func TestUnknownIDIsReportedConsistently(t *testing.T) {
	ctx := context.Background()
	s := newLoadedStore(t, NewMemoryBlobs(), &fakeClock{t: time.Now()})
	n := len(s.List())

	status := model.StatusCompleted
	_, errUpdate := s.Update(ctx, "missing", model.Patch{Status: &status})
	_, errStatus := s.UpdateStatus(ctx, "missing", model.StatusCompleted)
	_, errDelete := s.Delete(ctx, "missing")
	for _, err := range []error{errUpdate, errStatus, errDelete} {
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound; got %v", err)
		}
	}
	if len(s.List()) != n {
		t.Fatalf("expected list size unchanged; got %d want %d", len(s.List()), n)
	}
}

func TestDelete_RemovesExactlyOne(t *testing.T) {
	ctx := context.Background()
	s := newLoadedStore(t, NewMemoryBlobs(), &fakeClock{t: time.Now()})
	before := s.List()
	target := before[1].ID

	if _, err := s.Delete(ctx, target); err != nil {
		t.Fatalf("delete: %v", err)
	}
	after := s.List()
	if len(after) != len(before)-1 {
		t.Fatalf("expected size to drop by one; got %d -> %d", len(before), len(after))
	}
	if _, ok := s.Get(target); ok {
		t.Fatalf("expected %s to be gone", target)
	}
}

func TestPersistFailure_LeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobs()
	s := newLoadedStore(t, blobs, &fakeClock{t: time.Now()})
	before := s.List()

	blobs.FailPuts = errors.New("quota exceeded")
	_, err := s.Add(ctx, sampleFields())
	var pe *PersistError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PersistError; got %v", err)
	}
	if _, err := s.UpdateStatus(ctx, before[0].ID, model.StatusCompleted); !errors.As(err, &pe) {
		t.Fatalf("expected PersistError on update; got %v", err)
	}
	if _, err := s.Delete(ctx, before[0].ID); !errors.As(err, &pe) {
		t.Fatalf("expected PersistError on delete; got %v", err)
	}

	after := s.List()
	if len(after) != len(before) {
		t.Fatalf("expected no in-memory change; before=%d after=%d", len(before), len(after))
	}
	got, _ := s.Get(before[0].ID)
	if got.Status != before[0].Status {
		t.Fatalf("expected status unchanged after failed write")
	}
}

func TestRoundTrip_ReloadReproducesCollection(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobs()
	clock := &fakeClock{t: time.Date(2025, 1, 2, 9, 0, 0, 123456789, time.UTC)}
	s := newLoadedStore(t, blobs, clock)
	clock.Advance(time.Second)
	added, _ := s.Add(ctx, model.Fields{
		FormName:    "Annual Information Return",
		FormNumber:  "1604-E",
		Description: "Expanded withholding",
		Deadline:    model.MustDate("2025-03-01"),
		Frequency:   model.FrequencyAnnually,
		Status:      model.StatusInProgress,
	})

	reloaded := NewTaskStore(blobs)
	res, err := reloaded.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if res.Seeded {
		t.Fatalf("expected reload not to reseed")
	}
	assertSameTasks(t, s.List(), reloaded.List())

	got, ok := reloaded.Get(added.ID)
	if !ok || got.Description != "Expanded withholding" || got.Status != model.StatusInProgress {
		t.Fatalf("unexpected reloaded task: %+v", got)
	}
}

func assertSameTasks(t *testing.T, want, got []model.Task) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("task count mismatch: want %d got %d", len(want), len(got))
	}
	byID := map[string]model.Task{}
	for _, tk := range got {
		byID[tk.ID] = tk
	}
	for _, w := range want {
		g, ok := byID[w.ID]
		if !ok {
			t.Fatalf("missing task %s after reload", w.ID)
		}
		if g.FormName != w.FormName || g.FormNumber != w.FormNumber || g.Description != w.Description ||
			g.Deadline != w.Deadline || g.Frequency != w.Frequency || g.Status != w.Status ||
			!g.CreatedAt.Equal(w.CreatedAt) || !g.UpdatedAt.Equal(w.UpdatedAt) {
			t.Fatalf("task %s differs after reload:\nwant %+v\ngot  %+v", w.ID, w, g)
		}
	}
}

func TestMutationsRequireLoad(t *testing.T) {
	s := NewTaskStore(NewMemoryBlobs())
	if _, err := s.Add(context.Background(), sampleFields()); err == nil {
		t.Fatalf("expected add before load to fail")
	}
}
