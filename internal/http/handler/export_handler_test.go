package handler_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/odo-atelier/budget-api/internal/domain"
	"github.com/odo-atelier/budget-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportHandler_ArchiveAndDownload(t *testing.T) {
	api := setupTestAPI(t)
	ctx, user := testutil.UserContext(t)
	project := testutil.CreateTestProject(t, api.db, user.UserID, "Inverno")
	testutil.CreateTestItem(t, api.db, domain.CategoryMaterials, project.ID, domain.LineItem{Item: "Lã merino", UnitPrice: 60, Quantity: 3})
	base := "/projects/" + project.ID.String() + "/exports"

	rr := api.do(t, ctx, http.MethodPost, base, domain.CreateExportRequest{Format: domain.ExportFormatCSV})
	require.Equal(t, http.StatusCreated, rr.Code)
	var archived domain.ExportFileDTO
	decodeBody(t, rr, &archived)
	assert.Equal(t, "inverno.csv", archived.Filename)

	rr = api.do(t, ctx, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var files []domain.ExportFileDTO
	decodeBody(t, rr, &files)
	require.Len(t, files, 1)

	rr = api.do(t, ctx, http.MethodGet, base+"/"+archived.ID.String()+"/download", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, strconv.FormatInt(archived.Size, 10), rr.Header().Get("Content-Length"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "inverno.csv")
	assert.Contains(t, rr.Body.String(), "Lã merino,")

	rr = api.do(t, ctx, http.MethodGet, base+"/"+uuid.New().String()+"/download", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestExportHandler_InvalidFormat(t *testing.T) {
	api := setupTestAPI(t)
	ctx, user := testutil.UserContext(t)
	project := testutil.CreateTestProject(t, api.db, user.UserID, "Inverno")

	rr := api.do(t, ctx, http.MethodPost, "/projects/"+project.ID.String()+"/exports", map[string]string{"format": "pdf"})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var apiErr domain.APIError
	decodeBody(t, rr, &apiErr)
	assert.Contains(t, apiErr.Errors, "format")
}
