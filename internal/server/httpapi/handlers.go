package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/server/auth"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"
)

type sessionDTO struct {
	User         *models.PublicUser `json:"user"`
	AccessToken  string             `json:"accessToken"`
	RefreshToken string             `json:"refreshToken"`
}

type loginReq struct {
	UserName string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordReq struct {
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type updateAccountReq struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 2*h.opts.MaxUploadBytes+maxJSONBytes)
	if err := r.ParseMultipartForm(h.opts.MaxUploadBytes); err != nil {
		writeError(w, fmt.Errorf("%w: expected multipart form", common.ErrValidation))
		return
	}
	defer r.MultipartForm.RemoveAll()

	avatar, closeAvatar, err := formAsset(r, "avatar")
	if err != nil {
		writeError(w, err)
		return
	}
	defer closeAvatar()
	cover, closeCover, err := formAsset(r, "coverImage")
	if err != nil {
		writeError(w, err)
		return
	}
	defer closeCover()

	user, err := h.users.Register(r.Context(), services.RegisterRequest{
		UserName:   r.FormValue("username"),
		Email:      r.FormValue("email"),
		FullName:   r.FormValue("fullName"),
		Password:   r.FormValue("password"),
		Avatar:     avatar,
		CoverImage: cover,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, user, "User registered successfully")
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var in loginReq
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	session, err := h.users.Login(r.Context(), services.LoginRequest{UserName: in.UserName, Email: in.Email, Password: in.Password})
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeSession(w, session, "User logged in successfully")
}

// refreshToken reads the token from the body, falling back to the cookie.
func (h *handlers) refreshToken(w http.ResponseWriter, r *http.Request) {
	var in refreshReq
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, err)
			return
		}
	}
	token := in.RefreshToken
	if token == "" {
		token = refreshTokenCookieValue(r)
	}

	session, err := h.users.RefreshToken(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeSession(w, session, "Access token refreshed")
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	id := mustIdentity(r)
	if err := h.users.Logout(r.Context(), id.UserID); err != nil {
		writeError(w, err)
		return
	}
	h.clearSessionCookies(w)
	writeData(w, http.StatusOK, struct{}{}, "User logged out")
}

func (h *handlers) changePassword(w http.ResponseWriter, r *http.Request) {
	var in changePasswordReq
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	err := h.users.ChangePassword(r.Context(), mustIdentity(r).UserID, services.ChangePasswordRequest{
		OldPassword:     in.OldPassword,
		NewPassword:     in.NewPassword,
		ConfirmPassword: in.ConfirmPassword,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, struct{}{}, "Password changed successfully")
}

func (h *handlers) currentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.CurrentUser(r.Context(), mustIdentity(r).UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, user, "Current user fetched successfully")
}

func (h *handlers) updateAccount(w http.ResponseWriter, r *http.Request) {
	var in updateAccountReq
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.users.UpdateAccountDetails(r.Context(), mustIdentity(r).UserID, in.FullName, in.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, user, "Account details updated successfully")
}

func (h *handlers) updateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", h.users.UpdateAvatar, "Avatar updated successfully")
}

func (h *handlers) updateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", h.users.UpdateCoverImage, "Cover image updated successfully")
}

func (h *handlers) updateImage(w http.ResponseWriter, r *http.Request, field string,
	update func(ctx context.Context, userID string, asset *models.Asset) (*models.PublicUser, error), message string) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes+maxJSONBytes)
	if err := r.ParseMultipartForm(h.opts.MaxUploadBytes); err != nil {
		writeError(w, fmt.Errorf("%w: expected multipart form", common.ErrValidation))
		return
	}
	defer r.MultipartForm.RemoveAll()

	asset, closeAsset, err := formAsset(r, field)
	if err != nil {
		writeError(w, err)
		return
	}
	defer closeAsset()

	user, err := update(r.Context(), mustIdentity(r).UserID, asset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, user, message)
}

func (h *handlers) writeSession(w http.ResponseWriter, s *services.Session, message string) {
	h.setSessionCookies(w, s.AccessToken, s.RefreshToken)
	writeData(w, http.StatusOK, sessionDTO{User: s.User, AccessToken: s.AccessToken, RefreshToken: s.RefreshToken}, message)
}

// mustIdentity is only called behind requireAuth.
func mustIdentity(r *http.Request) *auth.Identity {
	id, _ := auth.IdentityFromContext(r.Context())
	return id
}

// formAsset returns the uploaded file of field, or nil when it is absent.
func formAsset(r *http.Request, field string) (*models.Asset, func(), error) {
	f, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, fmt.Errorf("%w: unreadable %s file", common.ErrValidation, field)
	}
	return toAsset(f, header), func() { _ = f.Close() }, nil
}

func toAsset(f io.Reader, header *multipart.FileHeader) *models.Asset {
	return &models.Asset{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
	}
}
