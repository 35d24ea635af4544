package service

import (
	"context"
	"testing"

	"bebop/internal/config"
	"bebop/internal/dto"
	"bebop/internal/model"
	"bebop/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memOperatorRepo struct {
	operators map[uuid.UUID]*model.Operator
}

var _ repository.OperatorRepository = (*memOperatorRepo)(nil)

func newMemOperatorRepo() *memOperatorRepo {
	return &memOperatorRepo{operators: make(map[uuid.UUID]*model.Operator)}
}

func (r *memOperatorRepo) Create(_ context.Context, o *model.Operator) error {
	o.ID = uuid.New()
	cp := *o
	r.operators[o.ID] = &cp
	return nil
}

func (r *memOperatorRepo) FindByLogin(_ context.Context, login string) (*model.Operator, error) {
	for _, o := range r.operators {
		if o.Login == login && o.Active {
			cp := *o
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memOperatorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Operator, error) {
	o, ok := r.operators[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *memOperatorRepo) List(_ context.Context) ([]model.Operator, error) {
	var out []model.Operator
	for _, o := range r.operators {
		if o.Active {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *memOperatorRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	o, ok := r.operators[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Active = false
	return nil
}

func newAuthFixture(t *testing.T) (AuthService, *memOperatorRepo) {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	}
	repo := newMemOperatorRepo()
	return NewAuthService(repo, cfg), repo
}

func TestLoginAndRefresh(t *testing.T) {
	svc, _ := newAuthFixture(t)
	_, err := svc.CreateOperator(context.Background(), dto.CreateOperatorRequest{
		Login:    "mcaro",
		Alias:    "Marina",
		Password: "s3cret-pass",
		Role:     "cashier",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Login: "mcaro", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, "Marina", resp.Operator.Alias)

	refreshed, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "mcaro", refreshed.Operator.Login)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)
	_, err := svc.CreateOperator(context.Background(), dto.CreateOperatorRequest{
		Login:    "mcaro",
		Password: "s3cret-pass",
		Role:     "cashier",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Login: "mcaro", Password: "wrong"})
	assert.EqualError(t, err, "invalid credentials")
}

func TestLoginUnknownOrInactiveOperator(t *testing.T) {
	svc, repo := newAuthFixture(t)
	op, err := svc.CreateOperator(context.Background(), dto.CreateOperatorRequest{
		Login:    "mcaro",
		Password: "s3cret-pass",
		Role:     "cashier",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Login: "nobody", Password: "s3cret-pass"})
	assert.EqualError(t, err, "invalid credentials")

	id, err := uuid.Parse(op.ID)
	require.NoError(t, err)
	require.NoError(t, repo.Deactivate(context.Background(), id))
	_, err = svc.Login(context.Background(), dto.LoginRequest{Login: "mcaro", Password: "s3cret-pass"})
	assert.EqualError(t, err, "invalid credentials")
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc, _ := newAuthFixture(t)
	_, err := svc.Refresh(context.Background(), "not-a-token")
	assert.Error(t, err)
}
