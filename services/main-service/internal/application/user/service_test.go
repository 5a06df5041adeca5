package user

import (
	"context"
	"testing"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepo struct{ mock.Mock }

func (m *MockRepo) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockRepo) List(ctx context.Context, ids []int64, page domain.Page) ([]domain.User, error) {
	args := m.Called(ctx, ids, page)
	if v := args.Get(0); v != nil {
		return v.([]domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		repo := new(MockRepo)
		repo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Name == "Ann Lee" && u.Email == "ann@example.com"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = 7
		}).Return(nil)

		u, err := NewService(repo).Register(ctx, "Ann Lee", " ann@example.com ")
		require.NoError(t, err)
		assert.EqualValues(t, 7, u.ID)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(MockRepo)
		repo.On("Create", ctx, mock.Anything).Return(domain.ErrConflict("email already exists"))
		_, err := NewService(repo).Register(ctx, "Ann Lee", "ann@example.com")
		assert.True(t, domain.IsCode(err, domain.CodeConflict))
	})

	t.Run("invalid email never reaches the repo", func(t *testing.T) {
		repo := new(MockRepo)
		_, err := NewService(repo).Register(ctx, "Ann Lee", "not-an-email")
		assert.True(t, domain.IsCode(err, domain.CodeValidation))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestList_DedupesIDs(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepo)
	repo.On("List", ctx, []int64{3, 1}, domain.DefaultPage()).Return([]domain.User{{ID: 3}, {ID: 1}}, nil)

	got, err := NewService(repo).List(ctx, []int64{3, 1, 3}, domain.DefaultPage())
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = NewService(repo).List(ctx, nil, domain.Page{From: 0, Size: 0})
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
	repo.AssertExpectations(t)
}
