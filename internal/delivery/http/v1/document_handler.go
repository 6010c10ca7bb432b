package v1

import (
	"net/http"

	"hr-portal-backend/internal/delivery/http/response"
	"hr-portal-backend/internal/domain"
	"hr-portal-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	documentUC domain.DocumentUsecase
}

func NewDocumentHandler(r *gin.RouterGroup, documentUC domain.DocumentUsecase) {
	handler := &DocumentHandler{documentUC: documentUC}

	documents := r.Group("/documents")
	{
		documents.GET("", handler.List)
		documents.POST("", handler.Upload)
		documents.DELETE("/:docId", handler.Delete)
	}

	// hr/admin acting on another user's collection
	r.DELETE("/employees/:employeeId/documents/:docId", handler.Delete)
}

// Upload godoc
// @Summary      Upload a document
// @Description  Upload a document for the current user, or for a target user when called by hr/admin
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        document    formData  file    true   "File to upload (pdf, doc, docx, jpg, png; max 5 MiB)"
// @Param        category    formData  string  true   "Document category (resume, contract, offer, other)"
// @Param        employee_id formData  string  false  "Target user id (hr/admin only)"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /documents [post]
// @Security     BearerAuth
func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("document")
	if err != nil {
		c.Error(apperror.BadRequest("No document uploaded"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.BadRequest("Unable to read uploaded document"))
		return
	}
	defer file.Close()

	in := domain.UploadInput{
		TargetUserID: c.PostForm("employee_id"),
		Category:     c.PostForm("category"),
		FileName:     fileHeader.Filename,
		FileType:     fileHeader.Header.Get("Content-Type"),
		Size:         fileHeader.Size,
		Content:      file,
	}

	// Gin Context implements context.Context and carries the actor keys
	doc, err := h.documentUC.Upload(c, in)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Document uploaded successfully", gin.H{"url": doc.URL, "id": doc.ID})
}

// List godoc
// @Summary      List documents
// @Description  Own documents plus resume slot for candidate/employee; all users' documents with owner info for hr/admin
// @Tags         documents
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.DocumentListing}
// @Failure      401  {object}  response.Response
// @Router       /documents [get]
// @Security     BearerAuth
func (h *DocumentHandler) List(c *gin.Context) {
	listing, err := h.documentUC.List(c)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Documents", listing)
}

// Delete godoc
// @Summary      Delete a document
// @Description  Delete an own document, or another user's document when called by hr/admin via the employees route
// @Tags         documents
// @Produce      json
// @Param        docId       path  string  true   "Document id"
// @Param        employeeId  path  string  false  "Owning user id (hr/admin only)"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /documents/{docId} [delete]
// @Security     BearerAuth
func (h *DocumentHandler) Delete(c *gin.Context) {
	docID := c.Param("docId")
	targetUserID := c.Param("employeeId")

	if err := h.documentUC.Delete(c, docID, targetUserID); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Document deleted successfully", nil)
}
