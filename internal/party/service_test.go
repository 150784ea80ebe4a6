package party

import (
	"context"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-arot/internal/settlement"
)

type fakeStorage struct {
	byID     map[uuid.UUID]Party
	bySerial map[string]Party
	serialQs int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		byID:     map[uuid.UUID]Party{},
		bySerial: map[string]Party{},
	}
}

func serialKey(kind Kind, serial int64) string {
	return string(kind) + ":" + strconv.FormatInt(serial, 10)
}

func (f *fakeStorage) put(p Party) {
	f.byID[p.ID] = p
	f.bySerial[serialKey(p.Kind, p.Serial)] = p
}

func (f *fakeStorage) Create(_ context.Context, p Party) (Party, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.Serial = int64(len(f.byID) + 1)
	f.put(p)
	return p, nil
}

func (f *fakeStorage) Update(_ context.Context, id uuid.UUID, req UpdateRequest) (Party, error) {
	p, ok := f.byID[id]
	if !ok {
		return Party{}, ErrNotFound
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Crate != nil {
		p.Crate = settlement.CrateTerms(*req.Crate)
	}
	f.put(p)
	return p, nil
}

func (f *fakeStorage) Delete(_ context.Context, id uuid.UUID) error {
	p, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(f.byID, id)
	delete(f.bySerial, serialKey(p.Kind, p.Serial))
	return nil
}

func (f *fakeStorage) GetByID(_ context.Context, id uuid.UUID) (Party, error) {
	p, ok := f.byID[id]
	if !ok {
		return Party{}, ErrNotFound
	}
	return p, nil
}

func (f *fakeStorage) GetBySerial(_ context.Context, kind Kind, serial int64) (Party, error) {
	f.serialQs++
	p, ok := f.bySerial[serialKey(kind, serial)]
	if !ok {
		return Party{}, ErrNotFound
	}
	return p, nil
}

func (f *fakeStorage) List(_ context.Context, kind Kind, limit, offset int) ([]Party, int64, error) {
	var out []Party
	for _, p := range f.byID {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func TestServiceCreateRejectsUnknownKind(t *testing.T) {
	svc := &Service{Store: newFakeStorage(), Logger: zerolog.Nop()}

	_, err := svc.Create(context.Background(), CreateRequest{Kind: "vendor", Name: "x"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestServiceCreateAndGet(t *testing.T) {
	svc := &Service{Store: newFakeStorage(), Logger: zerolog.Nop()}

	created, err := svc.Create(context.Background(), CreateRequest{
		Kind: "customer",
		Name: "Rahim",
		Crate: map[string]settlement.CrateTerm{
			"plastic": {Price: 20},
		},
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.Equal(t, KindCustomer, created.Kind)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Name, got.Name)
	require.Equal(t, 20.0, got.Crate["plastic"].Price)
}

func TestServiceTermsMissingSerialIsZero(t *testing.T) {
	svc := &Service{Store: newFakeStorage(), Logger: zerolog.Nop()}

	terms := svc.Terms(context.Background(), KindCustomer, 404)
	require.Nil(t, terms)

	// And the lookup closure degrades the same way.
	lookup := svc.Lookup(context.Background(), KindCustomer)
	require.Nil(t, lookup(404))
}

func TestServiceTermsHitsStoreThenFresh(t *testing.T) {
	store := newFakeStorage()
	svc := &Service{Store: store, Logger: zerolog.Nop()}

	created, err := svc.Create(context.Background(), CreateRequest{
		Kind: "supplier",
		Name: "Karim",
		Crate: map[string]settlement.CrateTerm{
			"wood": {Price: 35},
		},
	})
	require.NoError(t, err)

	terms := svc.Terms(context.Background(), KindSupplier, created.Serial)
	require.NotNil(t, terms)
	require.Equal(t, 35.0, terms["wood"].Price)
	require.Equal(t, 1, store.serialQs)

	// Without a cache every call goes to the store.
	_ = svc.Terms(context.Background(), KindSupplier, created.Serial)
	require.Equal(t, 2, store.serialQs)
}

func TestServiceDeleteMissing(t *testing.T) {
	svc := &Service{Store: newFakeStorage(), Logger: zerolog.Nop()}
	err := svc.Delete(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}
