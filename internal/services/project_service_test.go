package services

import (
	"context"
	"strings"
	"testing"

	"wishbase/internal/caching"
	"wishbase/internal/models"
	"wishbase/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type ProjectServiceTestSuite struct {
	suite.Suite
	stores  *repositories.Stores
	service ProjectService
	ctx     context.Context
}

func (suite *ProjectServiceTestSuite) SetupTest() {
	suite.stores = repositories.NewMemoryStores()
	suite.service = NewProjectService(suite.stores, caching.NewNoopCacheService())
	suite.ctx = context.Background()
}

func TestProjectServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}

func (suite *ProjectServiceTestSuite) TestCreateGeneratesAPIKey() {
	project, err := suite.service.Create(suite.ctx, &CreateProjectRequest{Name: "Store", Domain: "store.example.com"})
	suite.NoError(err)
	suite.True(strings.HasPrefix(project.APIKey, "wb_"))
	suite.Len(project.APIKey, len("wb_")+32)

	other, err := suite.service.Create(suite.ctx, &CreateProjectRequest{Name: "Other", Domain: "other.example.com"})
	suite.NoError(err)
	suite.NotEqual(project.APIKey, other.APIKey)
}

func (suite *ProjectServiceTestSuite) TestCreateRequiresNameAndDomain() {
	_, err := suite.service.Create(suite.ctx, &CreateProjectRequest{Name: "  ", Domain: "x.com"})
	suite.Error(err)
	_, err = suite.service.Create(suite.ctx, &CreateProjectRequest{Name: "X", Domain: ""})
	suite.Error(err)
}

func (suite *ProjectServiceTestSuite) TestResolveByUUIDAndAPIKey() {
	project, err := suite.service.Create(suite.ctx, &CreateProjectRequest{Name: "Store", Domain: "store.example.com"})
	suite.Require().NoError(err)

	byID, err := suite.service.Resolve(suite.ctx, project.ID.String())
	suite.NoError(err)
	suite.Equal(project.ID, byID.ID)

	byKey, err := suite.service.Resolve(suite.ctx, project.APIKey)
	suite.NoError(err)
	suite.Equal(project.ID, byKey.ID)
}

func (suite *ProjectServiceTestSuite) TestResolveUnknown() {
	_, err := suite.service.Resolve(suite.ctx, uuid.New().String())
	suite.ErrorIs(err, ErrNotFound)

	_, err = suite.service.Resolve(suite.ctx, "wb_deadbeef")
	suite.ErrorIs(err, ErrNotFound)

	_, err = suite.service.Resolve(suite.ctx, "   ")
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *ProjectServiceTestSuite) TestDeleteCascades() {
	project, err := suite.service.Create(suite.ctx, &CreateProjectRequest{Name: "Store", Domain: "store.example.com"})
	suite.Require().NoError(err)

	user := &models.User{ID: uuid.New(), ProjectID: project.ID, Email: "u@x.com", PasswordHash: "h"}
	suite.Require().NoError(suite.stores.Users.Create(suite.ctx, user))
	item := &models.WishlistItem{ID: uuid.New(), UserID: user.ID, ItemID: "sku-1"}
	suite.Require().NoError(suite.stores.Wishlist.Create(suite.ctx, item))

	suite.NoError(suite.service.Delete(suite.ctx, project.ID))

	_, err = suite.service.GetByID(suite.ctx, project.ID)
	suite.ErrorIs(err, ErrNotFound)
	_, err = suite.stores.Users.GetByID(suite.ctx, user.ID)
	suite.ErrorIs(err, repositories.ErrNotFound)
	_, err = suite.stores.Wishlist.GetByID(suite.ctx, item.ID)
	suite.ErrorIs(err, repositories.ErrNotFound)
}

func (suite *ProjectServiceTestSuite) TestDeleteMissing() {
	err := suite.service.Delete(suite.ctx, uuid.New())
	suite.ErrorIs(err, ErrNotFound)
}
