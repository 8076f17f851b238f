package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

func TestValidateCreateTicketRequest(t *testing.T) {
	for _, product := range domain.Products {
		req := CreateTicketRequest{Product: product, Description: "broken"}
		assert.NoError(t, Validate(req), "catalog product %q must pass", product)
	}

	err := Validate(CreateTicketRequest{Product: "Nokia", Description: "broken"})
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)
	assert.Contains(t, domainErr.Details, "Product")

	err = Validate(CreateTicketRequest{Product: domain.ProductIPhone})
	require.Error(t, err)
	assert.Contains(t, apperrors.ToDomainError(err).Details, "Description")
}

func TestValidateUpdateTicketRequest(t *testing.T) {
	assert.NoError(t, Validate(UpdateTicketRequest{}), "empty patch is a no-op, not an error")

	product := domain.ProductCustomPC
	status := domain.TicketStatusClosed
	assert.NoError(t, Validate(UpdateTicketRequest{Product: &product, Status: &status}))

	bad := domain.TicketStatus("archived")
	err := Validate(UpdateTicketRequest{Status: &bad})
	require.Error(t, err)
	assert.Contains(t, apperrors.ToDomainError(err).Details, "Status")
}

func TestValidateRegisterRequest(t *testing.T) {
	assert.NoError(t, Validate(RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "hunter22"}))

	err := Validate(RegisterRequest{Name: "Alice", Email: "not-an-email", Password: "hunter22"})
	require.Error(t, err)
	assert.Contains(t, apperrors.ToDomainError(err).Details, "Email")

	err = Validate(RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "short"})
	require.Error(t, err)
	assert.Contains(t, apperrors.ToDomainError(err).Details, "Password")
}

func TestValidateAssignTicketRequest(t *testing.T) {
	assert.NoError(t, Validate(AssignTicketRequest{StaffID: "s1", TicketID: "t1"}))

	err := Validate(AssignTicketRequest{TicketID: "t1"})
	require.Error(t, err)
	assert.Contains(t, apperrors.ToDomainError(err).Details, "StaffID")
}
