package services

import (
	"context"
	"testing"
	"time"

	"wishbase/internal/caching"
	"wishbase/internal/models"
	"wishbase/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type AuthServiceTestSuite struct {
	suite.Suite
	stores   *repositories.Stores
	tokens   TokenService
	recorder *recorderStub
	service  AuthService
	ctx      context.Context
	project  *models.Project
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.stores = repositories.NewMemoryStores()
	suite.tokens = NewTokenService("test-secret", 7*24*time.Hour)
	suite.recorder = &recorderStub{}
	suite.service = NewAuthService(suite.stores, suite.tokens, caching.NewNoopCacheService(), suite.recorder, 7*24*time.Hour)
	suite.ctx = context.Background()

	suite.project = &models.Project{
		ID:     uuid.New(),
		Name:   "Test Project",
		Domain: "example.com",
		APIKey: "wb_testkey",
	}
	suite.Require().NoError(suite.stores.Projects.Create(suite.ctx, suite.project))
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (suite *AuthServiceTestSuite) register(email, password string) (*models.User, *models.Session, error) {
	return suite.service.Register(suite.ctx, &RegisterRequest{
		ProjectID: suite.project.ID,
		Email:     email,
		Password:  password,
	})
}

func (suite *AuthServiceTestSuite) TestRegisterThenLogin() {
	user, session, err := suite.register("a@x.com", "pw123")
	suite.NoError(err)
	suite.NotNil(user)
	suite.NotEmpty(session.Token)
	suite.Equal(suite.project.ID, user.ProjectID)
	suite.NotEqual("pw123", user.PasswordHash)

	loggedIn, loginSession, err := suite.service.Login(suite.ctx, suite.project.ID, "a@x.com", "pw123")
	suite.NoError(err)
	suite.Equal(user.ID, loggedIn.ID)
	suite.NotEmpty(loginSession.Token)
	suite.NotEqual(session.Token, loginSession.Token)
	suite.NotNil(loggedIn.LastLoginAt)

	// Both sessions stay independently valid.
	_, err = suite.service.ValidateSession(suite.ctx, session.Token)
	suite.NoError(err)
	_, err = suite.service.ValidateSession(suite.ctx, loginSession.Token)
	suite.NoError(err)
}

func (suite *AuthServiceTestSuite) TestLoginWrongPasswordAndUnknownEmailIndistinguishable() {
	_, _, err := suite.register("a@x.com", "pw123")
	suite.NoError(err)

	_, _, wrongPassword := suite.service.Login(suite.ctx, suite.project.ID, "a@x.com", "pw124")
	suite.ErrorIs(wrongPassword, ErrInvalidCredentials)

	_, _, unknownEmail := suite.service.Login(suite.ctx, suite.project.ID, "nobody@x.com", "pw123")
	suite.ErrorIs(unknownEmail, ErrInvalidCredentials)

	suite.Equal(wrongPassword, unknownEmail)
}

func (suite *AuthServiceTestSuite) TestRegisterDuplicate() {
	first, _, err := suite.register("a@x.com", "pw123")
	suite.NoError(err)

	_, _, err = suite.register("a@x.com", "other-password")
	suite.ErrorIs(err, ErrUserExists)

	// First identity is unaffected.
	_, _, err = suite.service.Login(suite.ctx, suite.project.ID, "a@x.com", "pw123")
	suite.NoError(err)
	stored, err := suite.stores.Users.GetByID(suite.ctx, first.ID)
	suite.NoError(err)
	suite.Equal(first.PasswordHash, stored.PasswordHash)
}

func (suite *AuthServiceTestSuite) TestSameEmailAcrossProjects() {
	other := &models.Project{ID: uuid.New(), Name: "Other", Domain: "other.com", APIKey: "wb_otherkey"}
	suite.Require().NoError(suite.stores.Projects.Create(suite.ctx, other))

	userA, _, err := suite.register("a@x.com", "pw123")
	suite.NoError(err)

	userB, _, err := suite.service.Register(suite.ctx, &RegisterRequest{
		ProjectID: other.ID,
		Email:     "a@x.com",
		Password:  "different",
	})
	suite.NoError(err)

	suite.NotEqual(userA.ID, userB.ID)
	suite.Equal(other.ID, userB.ProjectID)
}

func (suite *AuthServiceTestSuite) TestRegisterUnknownProject() {
	_, _, err := suite.service.Register(suite.ctx, &RegisterRequest{
		ProjectID: uuid.New(),
		Email:     "a@x.com",
		Password:  "pw123",
	})
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *AuthServiceTestSuite) TestAuthenticateDerivesProjectFromUser() {
	user, session, err := suite.register("a@x.com", "pw123")
	suite.NoError(err)

	resolved, _, err := suite.service.Authenticate(suite.ctx, session.Token)
	suite.NoError(err)
	suite.Equal(user.ID, resolved.ID)
	// The project comes from the stored user record, not the caller.
	suite.Equal(suite.project.ID, resolved.ProjectID)
}

func (suite *AuthServiceTestSuite) TestLogoutInvalidatesSession() {
	_, session, err := suite.register("a@x.com", "pw123")
	suite.NoError(err)

	suite.NoError(suite.service.Logout(suite.ctx, session.Token))

	_, err = suite.service.ValidateSession(suite.ctx, session.Token)
	suite.ErrorIs(err, ErrSessionInvalid)
}

func (suite *AuthServiceTestSuite) TestLogoutIdempotent() {
	_, session, err := suite.register("a@x.com", "pw123")
	suite.NoError(err)

	suite.NoError(suite.service.Logout(suite.ctx, session.Token))
	suite.NoError(suite.service.Logout(suite.ctx, session.Token))
	suite.NoError(suite.service.Logout(suite.ctx, "never-issued"))
}

func (suite *AuthServiceTestSuite) TestExpiredSessionPurgedOnAccess() {
	user, _, err := suite.register("a@x.com", "pw123")
	suite.NoError(err)

	// Token still parses; the session row itself is past expiry.
	token, _, err := suite.tokens.Issue(user.ID, user.ProjectID)
	suite.NoError(err)
	expired := &models.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	suite.Require().NoError(suite.stores.Sessions.Create(suite.ctx, expired))

	_, err = suite.service.ValidateSession(suite.ctx, token)
	suite.ErrorIs(err, ErrSessionInvalid)

	// The row was purged, not just rejected.
	_, err = suite.stores.Sessions.GetByToken(suite.ctx, token)
	suite.ErrorIs(err, repositories.ErrNotFound)
}

func (suite *AuthServiceTestSuite) TestValidateSessionRejectsForeignToken() {
	user, _, err := suite.register("a@x.com", "pw123")
	suite.NoError(err)

	// A token signed by someone else never reaches the store.
	foreign := NewTokenService("other-secret", time.Hour)
	token, _, err := foreign.Issue(user.ID, user.ProjectID)
	suite.NoError(err)

	_, err = suite.service.ValidateSession(suite.ctx, token)
	suite.ErrorIs(err, ErrSessionInvalid)
}

func (suite *AuthServiceTestSuite) TestAuthenticateDeletedUser() {
	user, session, err := suite.register("a@x.com", "pw123")
	suite.NoError(err)

	_, err = suite.stores.Users.Delete(suite.ctx, user.ID)
	suite.NoError(err)

	_, _, err = suite.service.Authenticate(suite.ctx, session.Token)
	suite.ErrorIs(err, ErrSessionInvalid)
}

func (suite *AuthServiceTestSuite) TestAnalyticsEventsEmitted() {
	user, _, err := suite.register("a@x.com", "pw123")
	suite.NoError(err)
	_, _, err = suite.service.Login(suite.ctx, suite.project.ID, "a@x.com", "pw123")
	suite.NoError(err)

	registers := suite.recorder.byType(models.EventRegister)
	suite.Len(registers, 1)
	assert.Equal(suite.T(), user.ID, *registers[0].UserID)
	suite.Len(suite.recorder.byType(models.EventLogin), 1)
}

func (suite *AuthServiceTestSuite) TestEmailNormalized() {
	_, _, err := suite.register("  A@X.com ", "pw123")
	suite.NoError(err)

	_, _, err = suite.service.Login(suite.ctx, suite.project.ID, "a@x.com", "pw123")
	suite.NoError(err)

	_, _, err = suite.register("a@x.com", "pw123")
	suite.ErrorIs(err, ErrUserExists)
}
