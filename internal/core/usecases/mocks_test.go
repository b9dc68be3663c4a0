package usecases_test

import (
	"context"
	"io"
	"sync"

	"github.com/samirrijal/mapboard/internal/core/domain"
)

// --- Mock MarkerRepository ---

type mockMarkerRepo struct {
	listFn    func(ctx context.Context) ([]domain.Marker, error)
	getByIDFn func(ctx context.Context, id int64) (*domain.Marker, error)
	createFn  func(ctx context.Context, m *domain.Marker) error
	updateFn  func(ctx context.Context, id int64, u domain.MarkerUpdate) (*domain.Marker, error)
	deleteFn  func(ctx context.Context, id int64) error
	countFn   func(ctx context.Context) (int, error)
}

func (m *mockMarkerRepo) List(ctx context.Context) ([]domain.Marker, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockMarkerRepo) GetByID(ctx context.Context, id int64) (*domain.Marker, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockMarkerRepo) Create(ctx context.Context, mk *domain.Marker) error {
	if m.createFn != nil {
		return m.createFn(ctx, mk)
	}
	mk.ID = 1
	return nil
}

func (m *mockMarkerRepo) Update(ctx context.Context, id int64, u domain.MarkerUpdate) (*domain.Marker, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, u)
	}
	return nil, domain.ErrNotFound
}

func (m *mockMarkerRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockMarkerRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

// --- Mock PolygonRepository ---

type mockPolygonRepo struct {
	replaceFn func(ctx context.Context, p *domain.Polygon) error
	listFn    func(ctx context.Context) ([]domain.Polygon, error)
}

func (m *mockPolygonRepo) ReplaceCurrent(ctx context.Context, p *domain.Polygon) error {
	if m.replaceFn != nil {
		return m.replaceFn(ctx, p)
	}
	p.ID = 1
	return nil
}

func (m *mockPolygonRepo) List(ctx context.Context) ([]domain.Polygon, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

// --- Mock FileStore ---

type mockFileStore struct {
	saved   map[string][]byte
	removed []string
	err     error
}

func (m *mockFileStore) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	b, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	if m.saved == nil {
		m.saved = map[string][]byte{}
	}
	m.saved[filename] = b
	return "/uploads/" + filename, nil
}

func (m *mockFileStore) Remove(ctx context.Context, url string) error {
	m.removed = append(m.removed, url)
	return nil
}

// --- Recording EventPublisher ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.MapEvent
	err    error
}

func (p *recordingPublisher) PublishMapEvent(ctx context.Context, ev *domain.MapEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *ev)
	return p.err
}

func (p *recordingPublisher) kinds() []domain.MapEventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.MapEventKind, len(p.events))
	for i, e := range p.events {
		out[i] = e.Kind
	}
	return out
}
