package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dnoglop/task-joule/middleware"
	"github.com/dnoglop/task-joule/models"
	"github.com/dnoglop/task-joule/services"
)

// maxAvatarSize caps avatar uploads at 5MB.
const maxAvatarSize = 5 << 20

type ProfileHandler struct {
	profileService services.ProfileService
	inviteService  services.InviteService
	avatarService  services.AvatarService
}

func NewProfileHandler(profileService services.ProfileService, inviteService services.InviteService, avatarService services.AvatarService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		inviteService:  inviteService,
		avatarService:  avatarService,
	}
}

// Me resolves the signed-in user's own profile.
func (h *ProfileHandler) Me(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse(http.StatusUnauthorized, "unauthorized", nil))
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse(http.StatusUnauthorized, "invalid user claims", nil))
		return
	}

	profile, err := h.profileService.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse("profile fetched", profile))
}

func (h *ProfileHandler) List(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}

	profiles, err := h.profileService.List(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse("profiles fetched", profiles))
}

func (h *ProfileHandler) Get(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	profile, err := h.profileService.Get(c.Request.Context(), req, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse("profile fetched", profile))
}

func (h *ProfileHandler) Update(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var in models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(http.StatusBadRequest, err.Error(), nil))
		return
	}

	profile, err := h.profileService.Update(c.Request.Context(), req, id, &in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse("profile updated", profile))
}

func (h *ProfileHandler) Delete(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.profileService.Delete(c.Request.Context(), req, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse("profile deleted", nil))
}

// Invite creates a pending identity + profile and emails the invite link.
func (h *ProfileHandler) Invite(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}

	var in models.InviteEmployeeRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(http.StatusBadRequest, err.Error(), nil))
		return
	}

	resp, err := h.inviteService.InviteEmployee(c.Request.Context(), req, &in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse("employee invited", resp, http.StatusCreated))
}

// UploadAvatar stores the uploaded image in object storage and sets the
// profile's avatar_url.
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(http.StatusBadRequest, "avatar file is required", nil))
		return
	}
	if fileHeader.Size > maxAvatarSize {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(http.StatusBadRequest, "avatar exceeds the 5MB limit", nil))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(http.StatusBadRequest, err.Error(), nil))
		return
	}
	defer file.Close()

	url, err := h.avatarService.Upload(
		c.Request.Context(), req, id,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file, fileHeader.Size,
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse("avatar uploaded", gin.H{"avatar_url": url}))
}
