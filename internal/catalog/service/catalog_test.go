package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogerrors "github.com/jayant413/contrashutter-backend/internal/catalog/errors"
	"github.com/jayant413/contrashutter-backend/pkg/blob"
	"github.com/jayant413/contrashutter-backend/pkg/cache"
	"github.com/jayant413/contrashutter-backend/pkg/config"
	mongotx "github.com/jayant413/contrashutter-backend/pkg/db/mongo"
	apperrors "github.com/jayant413/contrashutter-backend/pkg/errors"
	"github.com/jayant413/contrashutter-backend/pkg/logger"
	"github.com/jayant413/contrashutter-backend/pkg/model"
	"github.com/jayant413/contrashutter-backend/pkg/validation"
)

// store backs all three fake repositories so cross-collection writes are
// visible to each other.
type store struct {
	services map[string]*model.Service
	events   map[string]*model.Event
	packages map[string]*model.Package
	seq      int
	reads    int
}

func newStore() *store {
	return &store{
		services: map[string]*model.Service{},
		events:   map[string]*model.Event{},
		packages: map[string]*model.Package{},
	}
}

func (s *store) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s%021x", prefix, s.seq)
}

func lookup[T any](m map[string]*T, id string, notFound error) (*T, error) {
	if !validation.IsObjectID(id) {
		return nil, catalogerrors.ErrInvalidID
	}
	if v, ok := m[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, notFound
}

func lookupMany[T any](m map[string]*T, ids []string) []*T {
	out := []*T{}
	for _, id := range ids {
		if v, ok := m[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

type fakeServices struct{ *store }

func (f fakeServices) Create(_ context.Context, s *model.Service) error {
	s.ID = f.nextID("650")
	f.services[s.ID] = s
	return nil
}

func (f fakeServices) FindAll(context.Context) ([]*model.Service, error) {
	f.reads++
	out := []*model.Service{}
	for _, s := range f.services {
		out = append(out, s)
	}
	return out, nil
}

func (f fakeServices) FindByID(_ context.Context, id string) (*model.Service, error) {
	return lookup(f.services, id, catalogerrors.ErrServiceNotFound)
}

func (f fakeServices) FindByIDs(_ context.Context, ids []string) ([]*model.Service, error) {
	return lookupMany(f.services, ids), nil
}

func (f fakeServices) Rename(_ context.Context, id, name string) error {
	s, ok := f.services[id]
	if !ok {
		return catalogerrors.ErrServiceNotFound
	}
	s.Name = name
	return nil
}

func (f fakeServices) AddEvent(_ context.Context, id, eventID string) error {
	s, ok := f.services[id]
	if !ok {
		return catalogerrors.ErrServiceNotFound
	}
	s.Events = append(s.Events, eventID)
	return nil
}

type fakeEvents struct{ *store }

func (f fakeEvents) Create(_ context.Context, e *model.Event) error {
	e.ID = f.nextID("651")
	f.events[e.ID] = e
	return nil
}

func (f fakeEvents) FindAll(context.Context) ([]*model.Event, error) {
	out := []*model.Event{}
	for _, e := range f.events {
		out = append(out, e)
	}
	return out, nil
}

func (f fakeEvents) FindByID(_ context.Context, id string) (*model.Event, error) {
	return lookup(f.events, id, catalogerrors.ErrEventNotFound)
}

func (f fakeEvents) FindByIDs(_ context.Context, ids []string) ([]*model.Event, error) {
	return lookupMany(f.events, ids), nil
}

func (f fakeEvents) FindByService(_ context.Context, serviceID string) ([]*model.Event, error) {
	f.reads++
	out := []*model.Event{}
	for _, e := range f.events {
		if e.ServiceID == serviceID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f fakeEvents) Update(_ context.Context, id string, update *model.EventUpdate, image string) error {
	e, ok := f.events[id]
	if !ok {
		return catalogerrors.ErrEventNotFound
	}
	if update.EventName != "" {
		e.EventName = update.EventName
	}
	if update.Description != nil {
		e.Description = *update.Description
	}
	if image != "" {
		e.Image = image
	}
	return nil
}

func (f fakeEvents) AddPackage(_ context.Context, id, packageID string) error {
	e, ok := f.events[id]
	if !ok {
		return catalogerrors.ErrEventNotFound
	}
	e.PackageIDs = append(e.PackageIDs, packageID)
	return nil
}

func (f fakeEvents) SetForm(_ context.Context, id, formID string) error {
	e, ok := f.events[id]
	if !ok {
		return catalogerrors.ErrEventNotFound
	}
	e.FormID = formID
	return nil
}

type fakePackages struct{ *store }

func (f fakePackages) Create(_ context.Context, p *model.Package) error {
	p.ID = f.nextID("652")
	f.packages[p.ID] = p
	return nil
}

func (f fakePackages) FindAll(context.Context) ([]*model.Package, error) {
	out := []*model.Package{}
	for _, p := range f.packages {
		out = append(out, p)
	}
	return out, nil
}

func (f fakePackages) FindByID(_ context.Context, id string) (*model.Package, error) {
	return lookup(f.packages, id, catalogerrors.ErrPackageNotFound)
}

func (f fakePackages) FindByIDs(_ context.Context, ids []string) ([]*model.Package, error) {
	return lookupMany(f.packages, ids), nil
}

func (f fakePackages) FindByEvent(_ context.Context, eventID string) ([]*model.Package, error) {
	out := []*model.Package{}
	for _, p := range f.packages {
		if p.EventID == eventID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f fakePackages) Replace(_ context.Context, id string, p *model.Package) (*model.Package, error) {
	if !validation.IsObjectID(id) {
		return nil, catalogerrors.ErrInvalidID
	}
	if _, ok := f.packages[id]; !ok {
		return nil, catalogerrors.ErrPackageNotFound
	}
	cp := *p
	cp.ID = id
	f.packages[id] = &cp
	return &cp, nil
}

type memoryCache struct {
	entries map[string][]byte
}

func (c *memoryCache) GetJSON(_ context.Context, key string, dst any) error {
	data, ok := c.entries[key]
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(data, dst)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return nil
}

func (c *memoryCache) DeletePrefix(_ context.Context, prefix string) error {
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

type recordingImages struct {
	stored  []string
	deleted []string
	err     error
}

func (r *recordingImages) Store(_ context.Context, folder string, up blob.Upload) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	ref := fmt.Sprintf("/uploads/%s/%d-%s", folder, len(r.stored)+1, up.Filename)
	r.stored = append(r.stored, ref)
	return ref, nil
}

func (r *recordingImages) Delete(_ context.Context, ref string) error {
	r.deleted = append(r.deleted, ref)
	return errors.New("already gone")
}

type fixture struct {
	svc    CatalogService
	store  *store
	cache  *memoryCache
	images *recordingImages
}

func newFixture() *fixture {
	log := logger.Discard()
	f := &fixture{
		store:  newStore(),
		cache:  &memoryCache{entries: map[string][]byte{}},
		images: &recordingImages{},
	}
	f.svc = NewCatalogService(
		fakeServices{f.store},
		fakeEvents{f.store},
		fakePackages{f.store},
		mongotx.NewDirectTransactionManager(),
		f.images,
		f.cache,
		validation.New(log),
		&config.Config{Log: log},
	)
	return f
}

func upload(name string) *blob.Upload {
	return &blob.Upload{Reader: strings.NewReader("img"), Filename: name}
}

func (f *fixture) seed(t *testing.T) (*model.Service, *model.Event) {
	t.Helper()
	ctx := context.Background()
	svc, err := f.svc.CreateService(ctx, "Photography")
	require.NoError(t, err)
	event, err := f.svc.CreateEvent(ctx, &model.Event{EventName: "Wedding", ServiceID: svc.ID}, upload("wedding.jpg"))
	require.NoError(t, err)
	return svc, event
}

func statusOf(t *testing.T, err error) (int, string) {
	t.Helper()
	appErr := apperrors.AsAppError(err)
	require.NotNil(t, appErr, "expected an app error, got %v", err)
	return appErr.StatusCode(), appErr.Message
}

func TestCreateService(t *testing.T) {
	f := newFixture()

	svc, err := f.svc.CreateService(context.Background(), "  Photo   Booth ")
	require.NoError(t, err)
	assert.Equal(t, "Photo Booth", svc.Name)
	assert.Empty(t, svc.Events)

	_, err = f.svc.CreateService(context.Background(), " ")
	status, msg := statusOf(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Service name is required", msg)
}

func TestCreateEvent_LinksServiceAndStoresImage(t *testing.T) {
	f := newFixture()
	svc, event := f.seed(t)

	assert.Equal(t, "/uploads/events/1-wedding.jpg", event.Image)
	assert.Equal(t, []string{event.ID}, f.store.services[svc.ID].Events)

	detail, err := f.svc.GetService(context.Background(), svc.ID)
	require.NoError(t, err)
	require.Len(t, detail.Events, 1)
	assert.Equal(t, "Wedding", detail.Events[0].EventName)
}

func TestCreateEvent_Errors(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateEvent(context.Background(), &model.Event{EventName: "Wedding"}, nil)
	status, msg := statusOf(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Event name and serviceId are required", msg)

	_, err = f.svc.CreateEvent(context.Background(), &model.Event{EventName: "Wedding", ServiceID: "650000000000000000000099"}, upload("x.jpg"))
	status, msg = statusOf(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Service not found", msg)
	assert.Empty(t, f.images.stored)

	f.images.err = blob.ErrUnsupportedType
	svc, err := f.svc.CreateService(context.Background(), "Video")
	require.NoError(t, err)
	_, err = f.svc.CreateEvent(context.Background(), &model.Event{EventName: "Reel", ServiceID: svc.ID}, upload("x.gif"))
	status, _ = statusOf(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Empty(t, f.store.events)
}

func TestEventsByService(t *testing.T) {
	f := newFixture()
	svc, _ := f.seed(t)

	events, err := f.svc.EventsByService(context.Background(), svc.ID)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	_, err = f.svc.EventsByService(context.Background(), "bad")
	status, msg := statusOf(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid service ID format", msg)

	_, err = f.svc.EventsByService(context.Background(), "650000000000000000000099")
	status, msg = statusOf(t, err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "No events found for this service", msg)
}

func TestEventsByService_ServedFromCacheUntilWrite(t *testing.T) {
	f := newFixture()
	svc, event := f.seed(t)
	ctx := context.Background()

	_, err := f.svc.EventsByService(ctx, svc.ID)
	require.NoError(t, err)
	_, err = f.svc.EventsByService(ctx, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.reads)

	desc := "Full day coverage"
	_, err = f.svc.UpdateEvent(ctx, event.ID, &model.EventUpdate{Description: &desc}, nil)
	require.NoError(t, err)
	assert.Empty(t, f.cache.entries)

	events, err := f.svc.EventsByService(ctx, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.store.reads)
	assert.Equal(t, desc, events[0].Description)
}

func TestUpdateEvent_ReplacesImage(t *testing.T) {
	f := newFixture()
	_, event := f.seed(t)

	updated, err := f.svc.UpdateEvent(context.Background(), event.ID, &model.EventUpdate{EventName: "Reception"}, upload("reception.jpg"))
	require.NoError(t, err)

	assert.Equal(t, "Reception", updated.EventName)
	assert.Equal(t, "/uploads/events/2-reception.jpg", updated.Image)
	assert.Equal(t, []string{"/uploads/events/1-wedding.jpg"}, f.images.deleted)

	_, err = f.svc.UpdateEvent(context.Background(), "651000000000000000000099", &model.EventUpdate{}, nil)
	status, msg := statusOf(t, err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Event not found", msg)
}

func TestCreatePackage(t *testing.T) {
	f := newFixture()
	svc, event := f.seed(t)
	ctx := context.Background()

	pkg, err := f.svc.CreatePackage(ctx, &model.Package{ServiceID: svc.ID, EventID: event.ID, Name: "Gold", Price: 50000, BookingPrice: 5000})
	require.NoError(t, err)
	assert.Equal(t, []string{pkg.ID}, f.store.events[event.ID].PackageIDs)
	assert.NotNil(t, pkg.CardDetails)

	detail, err := f.svc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, detail.PackageIDs, 1)
	assert.Equal(t, "Gold", detail.PackageIDs[0].Name)

	view, err := f.svc.GetPackage(ctx, pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Photography", view.ServiceID.Name)
	assert.Equal(t, "Wedding", view.EventID.EventName)

	tests := []struct {
		name    string
		pkg     model.Package
		wantMsg string
	}{
		{name: "missing service", pkg: model.Package{ServiceID: "650000000000000000000099", EventID: event.ID, Name: "X", Price: 1}, wantMsg: "Service not found"},
		{name: "missing event", pkg: model.Package{ServiceID: svc.ID, EventID: "651000000000000000000099", Name: "X", Price: 1}, wantMsg: "Invalid Event ID"},
		{name: "no price", pkg: model.Package{ServiceID: svc.ID, EventID: event.ID, Name: "X"}, wantMsg: "Required fields are missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreatePackage(ctx, &tt.pkg)
			status, msg := statusOf(t, err)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestUpdatePackage(t *testing.T) {
	f := newFixture()
	svc, event := f.seed(t)
	ctx := context.Background()
	pkg, err := f.svc.CreatePackage(ctx, &model.Package{ServiceID: svc.ID, EventID: event.ID, Name: "Gold", Price: 50000})
	require.NoError(t, err)

	replacement := model.Package{ServiceID: svc.ID, EventID: event.ID, Name: "Platinum", Price: 80000, BookingPrice: 8000}
	updated, err := f.svc.UpdatePackage(ctx, pkg.ID, &replacement)
	require.NoError(t, err)
	assert.Equal(t, "Platinum", updated.Name)
	assert.Equal(t, pkg.ID, updated.ID)

	noBookingPrice := replacement
	noBookingPrice.BookingPrice = 0
	_, err = f.svc.UpdatePackage(ctx, pkg.ID, &noBookingPrice)
	status, msg := statusOf(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Required fields are missing", msg)

	_, err = f.svc.UpdatePackage(ctx, "nope", &replacement)
	status, msg = statusOf(t, err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Package not found", msg)
}

func TestPackagesByEvent_Empty(t *testing.T) {
	f := newFixture()
	_, event := f.seed(t)

	_, err := f.svc.PackagesByEvent(context.Background(), event.ID)
	status, msg := statusOf(t, err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "No packages found for this Event ID", msg)
}

func TestUpdateServices_SkipsBadEntries(t *testing.T) {
	f := newFixture()
	svc, _ := f.seed(t)

	err := f.svc.UpdateServices(context.Background(), []model.ServiceUpdate{
		{ID: svc.ID, Name: "Photo & Video"},
		{ID: "650000000000000000000099", Name: "Ghost"},
		{ID: "bad", Name: "Broken"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Photo & Video", f.store.services[svc.ID].Name)

	err = f.svc.UpdateServices(context.Background(), nil)
	status, msg := statusOf(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid service update data", msg)
}

func TestLinkForm(t *testing.T) {
	f := newFixture()
	svc, event := f.seed(t)
	ctx := context.Background()

	_, err := f.svc.EventsByService(ctx, svc.ID)
	require.NoError(t, err)
	require.NotEmpty(t, f.cache.entries)

	require.NoError(t, f.svc.LinkForm(ctx, event.ID, "653000000000000000000001"))
	assert.Equal(t, "653000000000000000000001", f.store.events[event.ID].FormID)
	assert.NotEmpty(t, f.cache.entries, "cache must survive until the linking transaction commits")

	f.svc.InvalidateCache(ctx)
	assert.Empty(t, f.cache.entries)

	err = f.svc.LinkForm(ctx, "651000000000000000000099", "653000000000000000000001")
	status, msg := statusOf(t, err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Event not found", msg)
}
