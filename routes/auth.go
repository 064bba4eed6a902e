package routes

import (
	"net/http"
	"time"

	"debatehub/models"
	"debatehub/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type signUpRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"displayName"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignUp registers a new account with the configured identity provider and
// mirrors it into the users collection.
func (h *Handler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = utils.ExtractNameFromEmail(req.Email)
	}

	user := &models.User{
		ID:          uuid.NewString(),
		Email:       req.Email,
		DisplayName: displayName,
		CreatedAt:   time.Now(),
	}

	if h.Cfg.Auth.Provider == "cognito" {
		if err := h.signUpWithCognito(c, req.Email, req.Password); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign up", "message": err.Error()})
			return
		}
	} else {
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign up"})
			return
		}
		user.PasswordHash = hash
	}

	if err := h.Store.CreateUser(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sign-up successful", "userId": user.ID})
}

// Login authenticates and returns a bearer token
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": "Check email and password format"})
		return
	}

	if h.Cfg.Auth.Provider == "cognito" {
		token, err := h.loginWithCognito(c, req.Email, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to sign in", "message": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Sign-in successful", "accessToken": token})
		return
	}

	user, err := h.Store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to sign in", "message": "Invalid email or password"})
		return
	}

	expiry := time.Duration(h.Cfg.Auth.ExpiryMinutes) * time.Minute
	token, err := utils.GenerateJWTToken(h.Cfg.Auth.JWTSecret, user.ID, user.Email, expiry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sign-in successful", "accessToken": token})
}

// VerifyToken reports whether the presented bearer token is still valid.
// The auth middleware has already done the work by the time we get here.
func (h *Handler) VerifyToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Token is valid", "userId": c.GetString("userId")})
}

func (h *Handler) signUpWithCognito(c *gin.Context, email, password string) error {
	awsCfg, err := awsConfig.LoadDefaultConfig(c.Request.Context(), awsConfig.WithRegion(h.Cfg.Cognito.Region))
	if err != nil {
		return err
	}
	client := cognitoidentityprovider.NewFromConfig(awsCfg)

	secretHash := utils.GenerateSecretHash(email, h.Cfg.Cognito.AppClientId, h.Cfg.Cognito.AppClientSecret)
	_, err = client.SignUp(c.Request.Context(), &cognitoidentityprovider.SignUpInput{
		ClientId:   aws.String(h.Cfg.Cognito.AppClientId),
		Password:   aws.String(password),
		SecretHash: aws.String(secretHash),
		Username:   aws.String(email),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
			{Name: aws.String("nickname"), Value: aws.String(utils.ExtractNameFromEmail(email))},
		},
	})
	return err
}

func (h *Handler) loginWithCognito(c *gin.Context, email, password string) (string, error) {
	awsCfg, err := awsConfig.LoadDefaultConfig(c.Request.Context(), awsConfig.WithRegion(h.Cfg.Cognito.Region))
	if err != nil {
		return "", err
	}
	client := cognitoidentityprovider.NewFromConfig(awsCfg)

	secretHash := utils.GenerateSecretHash(email, h.Cfg.Cognito.AppClientId, h.Cfg.Cognito.AppClientSecret)
	out, err := client.InitiateAuth(c.Request.Context(), &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(h.Cfg.Cognito.AppClientId),
		AuthParameters: map[string]string{
			"USERNAME":    email,
			"PASSWORD":    password,
			"SECRET_HASH": secretHash,
		},
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.AuthenticationResult.AccessToken), nil
}
