package application

import (
	"context"
	"errors"
	"testing"

	"github.com/wyfcoding/autopartsmall/internal/address/domain"
)

type fakeAddressRepo struct {
	addresses map[uint]*domain.Address
	nextID    uint
}

func newFakeAddressRepo() *fakeAddressRepo {
	return &fakeAddressRepo{addresses: map[uint]*domain.Address{}, nextID: 1}
}

func (r *fakeAddressRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *fakeAddressRepo) Save(ctx context.Context, address *domain.Address) error {
	if address.ID == 0 {
		address.ID = r.nextID
		r.nextID++
	}
	cp := *address
	r.addresses[address.ID] = &cp
	return nil
}

func (r *fakeAddressRepo) GetByID(ctx context.Context, id uint) (*domain.Address, error) {
	address, ok := r.addresses[id]
	if !ok {
		return nil, domain.ErrAddressNotFound
	}
	cp := *address
	return &cp, nil
}

func (r *fakeAddressRepo) ListByUserID(ctx context.Context, userID uint) ([]*domain.Address, error) {
	var out []*domain.Address
	for _, a := range r.addresses {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAddressRepo) UnsetDefault(ctx context.Context, userID, exceptID uint) error {
	for _, a := range r.addresses {
		if a.UserID == userID && a.ID != exceptID {
			a.IsDefault = false
		}
	}
	return nil
}

func (r *fakeAddressRepo) Delete(ctx context.Context, id uint) error {
	delete(r.addresses, id)
	return nil
}

func validInput(isDefault bool) AddressInput {
	return AddressInput{
		Street:     "1 Main St",
		City:       "Springfield",
		State:      "IL",
		Country:    "US",
		PostalCode: "62701",
		IsDefault:  isDefault,
	}
}

func countDefaults(t *testing.T, svc *AddressService, userID uint) int {
	t.Helper()
	addresses, err := svc.List(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	var n int
	for _, a := range addresses {
		if a.IsDefault {
			n++
		}
	}
	return n
}

func TestCreateDefaultUnsetsPrevious(t *testing.T) {
	svc := NewAddressService(newFakeAddressRepo())
	ctx := context.Background()

	first, err := svc.Create(ctx, 7, validInput(true))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !first.IsDefault {
		t.Fatal("first address should be default")
	}

	second, err := svc.Create(ctx, 7, validInput(true))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !second.IsDefault {
		t.Fatal("second address should be default")
	}

	// 每个用户至多一个默认地址
	if n := countDefaults(t, svc, 7); n != 1 {
		t.Fatalf("expected exactly 1 default address, got %d", n)
	}
}

func TestDefaultIsPerUser(t *testing.T) {
	svc := NewAddressService(newFakeAddressRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, 7, validInput(true)); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, 8, validInput(true)); err != nil {
		t.Fatal(err)
	}

	if countDefaults(t, svc, 7) != 1 || countDefaults(t, svc, 8) != 1 {
		t.Error("default flag leaked across users")
	}
}

func TestUpdateToDefaultUnsetsPrevious(t *testing.T) {
	svc := NewAddressService(newFakeAddressRepo())
	ctx := context.Background()

	first, err := svc.Create(ctx, 7, validInput(true))
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Create(ctx, 7, validInput(false))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Update(ctx, 7, second.ID, validInput(true)); err != nil {
		t.Fatalf("Update: %v", err)
	}

	updatedFirst, err := svc.Get(ctx, 7, first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updatedFirst.IsDefault {
		t.Error("previous default not unset")
	}
	if countDefaults(t, svc, 7) != 1 {
		t.Error("expected exactly 1 default address")
	}
}

func TestOwnershipChecks(t *testing.T) {
	svc := NewAddressService(newFakeAddressRepo())
	ctx := context.Background()

	address, err := svc.Create(ctx, 7, validInput(false))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Get(ctx, 8, address.ID); !errors.Is(err, domain.ErrAddressNotFound) {
		t.Errorf("foreign Get: expected ErrAddressNotFound, got %v", err)
	}
	if _, err := svc.Update(ctx, 8, address.ID, validInput(false)); !errors.Is(err, domain.ErrAddressNotFound) {
		t.Errorf("foreign Update: expected ErrAddressNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, 8, address.ID); !errors.Is(err, domain.ErrAddressNotFound) {
		t.Errorf("foreign Delete: expected ErrAddressNotFound, got %v", err)
	}

	if err := svc.Delete(ctx, 7, address.ID); err != nil {
		t.Errorf("owner Delete: %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewAddressService(newFakeAddressRepo())

	in := validInput(false)
	in.Street = ""
	if _, err := svc.Create(context.Background(), 7, in); err == nil {
		t.Error("expected validation error for missing street")
	}
}
