package user

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sahatak/models"
	"sahatak/utils"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
	created []*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*models.User)}
}

func (f *fakeUserRepo) GetByID(id string) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserRepo) Create(user *models.User) error {
	f.byEmail[user.Email] = user
	f.created = append(f.created, user)
	return nil
}

func (f *fakeUserRepo) SetFCMToken(id, token string) error {
	for _, u := range f.byEmail {
		if u.ID == id {
			u.FCMToken = token
			return nil
		}
	}
	return errors.New("user not found")
}

func TestRegisterIssuesUsableToken(t *testing.T) {
	svc := &DefaultUserService{Repo: newFakeUserRepo()}

	resp, err := svc.Register(models.RegisterRequest{
		Email:    "amal@example.com",
		Password: "s3cret-pass",
		FullName: "Amal Hassan",
		UserType: models.UserPatient,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, models.UserPatient, resp.User.UserType)
	assert.True(t, resp.User.IsActive)

	userID, role, err := utils.ExtractIDFromToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
	assert.Equal(t, "patient", role)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := &DefaultUserService{Repo: newFakeUserRepo()}

	req := models.RegisterRequest{
		Email:    "amal@example.com",
		Password: "s3cret-pass",
		FullName: "Amal Hassan",
		UserType: models.UserPatient,
	}
	_, err := svc.Register(req)
	require.NoError(t, err)

	_, err = svc.Register(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestRegisterRejectsUnknownUserType(t *testing.T) {
	svc := &DefaultUserService{Repo: newFakeUserRepo()}
	_, err := svc.Register(models.RegisterRequest{
		Email:    "amal@example.com",
		Password: "s3cret-pass",
		UserType: "admin",
	})
	require.Error(t, err)
}

func TestAuthenticate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := &DefaultUserService{Repo: repo}

	_, err := svc.Register(models.RegisterRequest{
		Email:    "amal@example.com",
		Password: "s3cret-pass",
		FullName: "Amal Hassan",
		UserType: models.UserPatient,
	})
	require.NoError(t, err)

	resp, err := svc.Authenticate(models.LoginRequest{Email: "amal@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Authenticate(models.LoginRequest{Email: "amal@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid email or password")

	_, err = svc.Authenticate(models.LoginRequest{Email: "nobody@example.com", Password: "s3cret-pass"})
	require.Error(t, err)
}

func TestSetFCMToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := &DefaultUserService{Repo: repo}

	resp, err := svc.Register(models.RegisterRequest{
		Email:    "amal@example.com",
		Password: "s3cret-pass",
		UserType: models.UserPatient,
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetFCMToken(resp.User.ID, "device-token-abc"))
	assert.Equal(t, "device-token-abc", repo.byEmail["amal@example.com"].FCMToken)

	err = svc.SetFCMToken("no-such-user", "device-token-abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store push token")
}

func TestAuthenticateRejectsDeactivatedAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := &DefaultUserService{Repo: repo}

	_, err := svc.Register(models.RegisterRequest{
		Email:    "amal@example.com",
		Password: "s3cret-pass",
		UserType: models.UserPatient,
	})
	require.NoError(t, err)
	repo.byEmail["amal@example.com"].IsActive = false

	_, err = svc.Authenticate(models.LoginRequest{Email: "amal@example.com", Password: "s3cret-pass"})
	require.Error(t, err)
}
