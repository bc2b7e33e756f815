package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/proyecthub/proyecthub-api/internal/models"
	"github.com/proyecthub/proyecthub-api/internal/repository"
)

func cloneProject(p *models.Project) *models.Project {
	c := *p
	c.Stack = append(models.StringList{}, p.Stack...)
	c.Tags = append(models.StringList{}, p.Tags...)
	c.Images = append(models.StringList{}, p.Images...)
	return &c
}

type fakeProjectRepo struct {
	repository.ProjectRepository
	rows   map[uint]*models.Project
	nextID uint

	createErr error
	deleteErr error
	// vanishOnUpdate drops the row right before the write, as a concurrent
	// delete would.
	vanishOnUpdate bool
	// conflictOnUpdate reports a conflict while keeping the row.
	conflictOnUpdate bool
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{rows: map[uint]*models.Project{}, nextID: 1}
}

func (r *fakeProjectRepo) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	p, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneProject(p), nil
}

func (r *fakeProjectRepo) Exists(ctx context.Context, id uint) (bool, error) {
	_, ok := r.rows[id]
	return ok, nil
}

func (r *fakeProjectRepo) List(ctx context.Context) ([]models.Project, error) {
	out := make([]models.Project, 0, len(r.rows))
	for _, p := range r.rows {
		out = append(out, *cloneProject(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeProjectRepo) Create(ctx context.Context, p *models.Project) error {
	if r.createErr != nil {
		return r.createErr
	}
	p.ID = r.nextID
	r.nextID++
	r.rows[p.ID] = cloneProject(p)
	return nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, p *models.Project) error {
	if r.vanishOnUpdate {
		delete(r.rows, p.ID)
	}
	if r.conflictOnUpdate {
		return repository.ErrConflict
	}
	if _, ok := r.rows[p.ID]; !ok {
		return repository.ErrConflict
	}
	r.rows[p.ID] = cloneProject(p)
	return nil
}

func (r *fakeProjectRepo) Delete(ctx context.Context, id uint) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

type fakeAuditRepo struct {
	repository.AuditRepository
	rows   []*models.AuditLog
	nextID uint

	createErr error
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{nextID: 1}
}

func (r *fakeAuditRepo) Create(ctx context.Context, e *models.AuditLog) error {
	if r.createErr != nil {
		return r.createErr
	}
	e.ID = r.nextID
	r.nextID++
	c := *e
	r.rows = append(r.rows, &c)
	return nil
}

func (r *fakeAuditRepo) FindByID(ctx context.Context, id uint) (*models.AuditLog, error) {
	for _, e := range r.rows {
		if e.ID == id {
			c := *e
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAuditRepo) List(ctx context.Context) ([]models.AuditLog, error) {
	out := make([]models.AuditLog, 0, len(r.rows))
	for _, e := range r.rows {
		out = append(out, *e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (r *fakeAuditRepo) MarkRestored(ctx context.Context, id uint, at time.Time, by *uint) error {
	for _, e := range r.rows {
		if e.ID == id {
			if e.RestoredAt != nil {
				return repository.ErrConflict
			}
			e.RestoredAt = &at
			e.RevokedBy = by
			return nil
		}
	}
	return repository.ErrConflict
}

// last returns the most recently written entry
func (r *fakeAuditRepo) last() *models.AuditLog {
	if len(r.rows) == 0 {
		return nil
	}
	return r.rows[len(r.rows)-1]
}

type fakeImageStore struct {
	files     map[string][]byte
	deleted   []string
	deleteErr map[string]error
	seq       int
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{files: map[string][]byte{}, deleteErr: map[string]error{}}
}

func (s *fakeImageStore) Save(r io.Reader, originalName string) (string, error) {
	s.seq++
	name := fmt.Sprintf("img%03d%s", s.seq, filepath.Ext(originalName))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	s.files[name] = buf.Bytes()
	return name, nil
}

func (s *fakeImageStore) Delete(name string) error {
	if err, ok := s.deleteErr[name]; ok {
		return err
	}
	s.deleted = append(s.deleted, name)
	delete(s.files, name)
	return nil
}

const testMount = "/images/"

var fixedNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	projects *fakeProjectRepo
	audits   *fakeAuditRepo
	store    *fakeImageStore
	images   *ImageService
	audit    *AuditService
	project  *ProjectService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		projects: newFakeProjectRepo(),
		audits:   newFakeAuditRepo(),
		store:    newFakeImageStore(),
	}
	env.images = NewImageService(env.store, testMount, 1<<20)
	env.audit = NewAuditService(env.audits, env.projects, env.images)
	tick := 0
	env.audit.now = func() time.Time {
		tick++
		return fixedNow.Add(time.Duration(tick) * time.Second)
	}
	env.project = NewProjectService(env.projects, env.audit, env.images)
	return env
}

var testActor = models.Actor{UserID: 7, Username: "admin@example.com", Email: "admin@example.com"}
