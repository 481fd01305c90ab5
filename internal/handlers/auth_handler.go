package handlers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"go-quote-backend/internal/auth"
	"go-quote-backend/internal/database"
	"go-quote-backend/internal/mailer"
	"go-quote-backend/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func bcryptCost() int {
	if c, err := strconv.Atoi(os.Getenv("SALT_ROUNDS")); err == nil && c >= bcrypt.MinCost && c <= bcrypt.MaxCost {
		return c
	}
	return 12
}

// --- POST /api/auth/register ---
func Register(c *gin.Context) {
	var input RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	// Reject duplicate emails up front with a friendly message
	var existing models.User
	if err := database.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Email already exists. Please login instead."})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to hash password"})
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: string(hashed),
	}

	if err := database.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"message": "Email already exists. Please login instead."})
			return
		}
		log.Println("Register error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
		"token": token,
	})
}

// --- POST /api/auth/login ---
func Login(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password required"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid password"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
		"token": token,
	})
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// --- POST /api/auth/forgot-password ---
// Issues a single-use reset token: the raw token goes to the user's
// inbox, only its sha256 lands in the database.
func ForgotPassword(c *gin.Context) {
	var input ForgotPasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	// 1. Generate reset token (raw)
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	resetToken := hex.EncodeToString(raw)

	// 2. Hash token & store with a 10 minute expiry
	hashed := sha256.Sum256([]byte(resetToken))
	expire := time.Now().Add(10 * time.Minute)
	user.ResetPasswordToken = hex.EncodeToString(hashed[:])
	user.ResetPasswordExpire = &expire

	if err := database.DB.Save(&user).Error; err != nil {
		log.Println("forgotPassword error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	// 3. Reset URL (for the frontend route)
	resetURL := clientURL() + "/reset-password/" + resetToken

	if err := mailer.SendResetEmail(user.Email, resetURL); err != nil {
		// Delivery failure should not leak into the API response;
		// the link is still returned below while email is in rollout.
		log.Println("Email sending error:", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Password reset link sent to email",
		"resetURL": resetURL, // temporary for testing
	})
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// --- POST /api/auth/reset-password/:token ---
func ResetPassword(c *gin.Context) {
	token := c.Param("token")

	var input ResetPasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password is required"})
		return
	}

	// Hash the raw token to match what we stored
	hashed := sha256.Sum256([]byte(token))

	var user models.User
	err := database.DB.
		Where("reset_password_token = ? AND reset_password_expire > ?", hex.EncodeToString(hashed[:]), time.Now()).
		First(&user).Error
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired token"})
		return
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to hash password"})
		return
	}

	user.PasswordHash = string(newHash)
	user.ResetPasswordToken = ""
	user.ResetPasswordExpire = nil

	if err := database.DB.Save(&user).Error; err != nil {
		log.Println("resetPassword error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}

func clientURL() string {
	if u := os.Getenv("CLIENT_URL"); u != "" {
		return strings.TrimRight(u, "/")
	}
	return "http://localhost:5173"
}
