package repos

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/legaltext/finetuner/internal/db/models"
)

type DatasetRepositoryTestSuite struct {
	DBRepositoryTestSuite
}

func TestDatasetRepository(t *testing.T) {
	suite.Run(t, new(DatasetRepositoryTestSuite))
}

func (s *DatasetRepositoryTestSuite) TestCreateAndGet() {
	ownerID := s.randomOwnerID()
	dataset := s.createTestDataset(ownerID)

	found, err := s.datasetRepo.GetByID(s.ctx, dataset.ID)
	s.NoError(err)
	s.Equal(dataset.Name, found.Name)
	s.Equal(ownerID, found.OwnerID)

	// Owner ID is required
	err = s.datasetRepo.Create(s.ctx, &models.Dataset{Name: "orphan", FilePath: "x.json"})
	s.Error(err)
	s.Contains(err.Error(), "invalid owner_id")
}

func (s *DatasetRepositoryTestSuite) TestListByOwner() {
	ownerID := s.randomOwnerID()
	s.createTestDataset(ownerID)
	s.createTestDataset(ownerID)
	s.createTestDataset(ownerID + 1)

	datasets, err := s.datasetRepo.ListByOwner(s.ctx, ownerID, nil)
	s.NoError(err)
	s.Len(datasets, 2)

	count, err := s.datasetRepo.CountByOwner(s.ctx, ownerID)
	s.NoError(err)
	s.Equal(int64(2), count)
}

func (s *DatasetRepositoryTestSuite) TestListByOwnerSearch() {
	ownerID := s.randomOwnerID()
	contracts := &models.Dataset{OwnerID: ownerID, Name: "supreme-court-judgments", FilePath: "a.json"}
	s.NoError(s.datasetRepo.Create(s.ctx, contracts))
	s.createTestDataset(ownerID)

	datasets, err := s.datasetRepo.ListByOwner(s.ctx, ownerID, &models.ListOptions{Limit: 10, Search: "judgments"})
	s.NoError(err)
	s.Len(datasets, 1)
	s.Equal(contracts.ID, datasets[0].ID)
}

func (s *DatasetRepositoryTestSuite) TestListPublic() {
	ownerID := s.randomOwnerID()
	s.createTestDataset(ownerID)

	public := &models.Dataset{OwnerID: ownerID, Name: "open-corpus", FilePath: "b.json", IsPublic: true}
	s.NoError(s.datasetRepo.Create(s.ctx, public))

	datasets, err := s.datasetRepo.ListPublic(s.ctx, nil)
	s.NoError(err)
	s.Len(datasets, 1)
	s.Equal(public.ID, datasets[0].ID)
}

func (s *DatasetRepositoryTestSuite) TestUpdateScopedToOwner() {
	ownerID := s.randomOwnerID()
	dataset := s.createTestDataset(ownerID)

	dataset.IsShared = true
	dataset.SharedWith = models.UintSlice{ownerID + 5}
	s.NoError(s.datasetRepo.Update(s.ctx, ownerID, dataset))

	found, err := s.datasetRepo.GetByID(s.ctx, dataset.ID)
	s.NoError(err)
	s.True(found.IsShared)
	s.Equal(models.UintSlice{ownerID + 5}, found.SharedWith)
	s.True(found.AccessibleBy(ownerID + 5))
	s.False(found.AccessibleBy(ownerID + 6))
}

func (s *DatasetRepositoryTestSuite) TestDelete() {
	ownerID := s.randomOwnerID()
	dataset := s.createTestDataset(ownerID)

	// A different owner cannot delete
	err := s.datasetRepo.Delete(s.ctx, ownerID+1, dataset.ID)
	s.ErrorIs(err, gorm.ErrRecordNotFound)

	err = s.datasetRepo.Delete(s.ctx, ownerID, dataset.ID)
	s.NoError(err)

	_, err = s.datasetRepo.GetByID(s.ctx, dataset.ID)
	s.ErrorIs(err, gorm.ErrRecordNotFound)
}
