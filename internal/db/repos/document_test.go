package repos

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/legaltext/finetuner/internal/db/models"
)

type DocumentRepositoryTestSuite struct {
	DBRepositoryTestSuite
}

func TestDocumentRepository(t *testing.T) {
	suite.Run(t, new(DocumentRepositoryTestSuite))
}

func (s *DocumentRepositoryTestSuite) createDocument(ownerID uint, status models.DocumentStatus) *models.ProcessedDocument {
	doc := &models.ProcessedDocument{
		OwnerID:          ownerID,
		ProcessID:        fmt.Sprintf("proc-%d-%d", ownerID, s.randomOwnerID()),
		OriginalFilename: "judgment.pdf",
		Status:           status,
	}
	if status == models.DocumentStatusCompleted {
		doc.PageCount = 12
		doc.CharCount = 34000
		doc.TextPath = fmt.Sprintf("texts/%d/%s.txt", ownerID, doc.ProcessID)
	} else {
		doc.ErrorMsg = "not a pdf"
	}
	s.Require().NoError(s.documentRepo.Create(s.ctx, doc))
	return doc
}

func (s *DocumentRepositoryTestSuite) TestGetByProcessID() {
	ownerID := s.randomOwnerID()
	doc := s.createDocument(ownerID, models.DocumentStatusCompleted)

	found, err := s.documentRepo.GetByProcessID(s.ctx, ownerID, doc.ProcessID)
	s.NoError(err)
	s.Equal(doc.ID, found.ID)
	s.Equal(12, found.PageCount)

	// Scoped to owner
	_, err = s.documentRepo.GetByProcessID(s.ctx, ownerID+1, doc.ProcessID)
	s.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (s *DocumentRepositoryTestSuite) TestFailedExtractionRecorded() {
	ownerID := s.randomOwnerID()
	doc := s.createDocument(ownerID, models.DocumentStatusFailed)

	found, err := s.documentRepo.GetByProcessID(s.ctx, ownerID, doc.ProcessID)
	s.NoError(err)
	s.Equal(models.DocumentStatusFailed, found.Status)
	s.Equal("not a pdf", found.ErrorMsg)
	s.Empty(found.TextPath)
}

func (s *DocumentRepositoryTestSuite) TestListByOwner() {
	ownerID := s.randomOwnerID()
	s.createDocument(ownerID, models.DocumentStatusCompleted)
	s.createDocument(ownerID, models.DocumentStatusFailed)
	s.createDocument(ownerID+1, models.DocumentStatusCompleted)

	docs, err := s.documentRepo.ListByOwner(s.ctx, ownerID, nil)
	s.NoError(err)
	s.Len(docs, 2)

	docs, err = s.documentRepo.ListByOwner(s.ctx, ownerID, &models.ListOptions{Limit: 1})
	s.NoError(err)
	s.Len(docs, 1)
}
