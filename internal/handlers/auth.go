package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"spot-rental-api/internal/auth"
	"spot-rental-api/internal/database"
	"spot-rental-api/internal/models"
)

// AuthHandler handles signup and login.
type AuthHandler struct {
	db     *database.DB
	tokens *auth.Manager
	log    zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(db *database.DB, tokens *auth.Manager, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{db: db, tokens: tokens, log: log}
}

type signupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Credential string `json:"credential"`
	Password   string `json:"password"`
}

type userResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Username  string `json:"username"`
}

// Signup registers a new account and returns a token for it.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bad Request"})
		return
	}

	fieldErrs := map[string]string{}
	if strings.TrimSpace(req.FirstName) == "" {
		fieldErrs["firstName"] = "First Name is required"
	}
	if strings.TrimSpace(req.LastName) == "" {
		fieldErrs["lastName"] = "Last Name is required"
	}
	if !strings.Contains(req.Email, "@") {
		fieldErrs["email"] = "Invalid email"
	}
	if len(req.Username) < 4 {
		fieldErrs["username"] = "Username is required"
	}
	if len(req.Password) < 6 {
		fieldErrs["password"] = "Password must be 6 characters or more"
	}
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bad Request", "errors": fieldErrs})
		return
	}

	exists, err := h.db.UserExists(req.Email, req.Username)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if exists {
		c.JSON(http.StatusForbidden, gin.H{
			"message": "User already exists",
			"errors":  gin.H{"email": "User with that email or username already exists"},
		})
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		h.serverError(c, err)
		return
	}

	user := models.User{
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Username:       req.Username,
		HashedPassword: hashed,
	}
	if err := h.db.CreateUser(&user); err != nil {
		h.serverError(c, err)
		return
	}

	token, err := h.tokens.IssueToken(user.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  h.userResponse(&user),
		"token": token,
	})
}

// Login exchanges a credential (email or username) and password for a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bad Request"})
		return
	}

	user, err := h.db.GetUserByCredential(strings.TrimSpace(req.Credential))
	if err != nil || !auth.CheckPassword(user.HashedPassword, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := h.tokens.IssueToken(user.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  h.userResponse(user),
		"token": token,
	})
}

// Me returns the authenticated caller's account.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}
	user, err := h.db.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": h.userResponse(user)})
}

func (h *AuthHandler) userResponse(user *models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Username:  user.Username,
	}
}

func (h *AuthHandler) serverError(c *gin.Context, err error) {
	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"message": "Server error",
		"errors":  err.Error(),
	})
}
