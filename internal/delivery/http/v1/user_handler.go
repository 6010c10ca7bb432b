package v1

import (
	"net/http"

	"hr-portal-backend/internal/delivery/http/response"
	"hr-portal-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userUC domain.UserUsecase
}

func NewUserHandler(r *gin.RouterGroup, userUC domain.UserUsecase) {
	handler := &UserHandler{userUC: userUC}

	r.GET("/users", handler.ListUsers)
}

// ListUsers godoc
// @Summary      List users
// @Description  Id+name directory for hr/admin to pick an upload or delete target
// @Tags         users
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.UserSummary}
// @Failure      403  {object}  response.Response
// @Router       /users [get]
// @Security     BearerAuth
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userUC.ListUsers(c)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Users", users)
}
