package middlewares

import (
	"context"
	"net/http"
	"strings"
	"time"

	"debatehub/config"
	"debatehub/db"
	"debatehub/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the bearer token and sets userId and userEmail in
// the gin context. The token is validated locally (JWT) or against Cognito,
// depending on the configured provider.
func AuthMiddleware(cfg *config.Config, store db.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing Authorization token"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization token format"})
			c.Abort()
			return
		}
		token := parts[1]

		var userID, email string
		var err error
		if cfg.Auth.Provider == "cognito" {
			userID, email, err = resolveCognitoUser(c.Request.Context(), cfg, store, token)
		} else {
			userID, email, err = resolveJWTUser(cfg, token)
		}
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("userId", userID)
		c.Set("userEmail", email)
		c.Next()
	}
}

func resolveJWTUser(cfg *config.Config, token string) (string, string, error) {
	claims, err := utils.ParseJWTToken(cfg.Auth.JWTSecret, token)
	if err != nil {
		return "", "", err
	}
	return claims.UserID, claims.Email, nil
}

// resolveCognitoUser validates the access token with Cognito and maps the
// Cognito identity onto the local users collection.
func resolveCognitoUser(ctx context.Context, cfg *config.Config, store db.Store, token string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(cfg.Cognito.Region))
	if err != nil {
		return "", "", err
	}

	client := cognitoidentityprovider.NewFromConfig(awsCfg)
	out, err := client.GetUser(ctx, &cognitoidentityprovider.GetUserInput{
		AccessToken: aws.String(token),
	})
	if err != nil {
		return "", "", err
	}

	var email string
	for _, attr := range out.UserAttributes {
		if aws.ToString(attr.Name) == "email" {
			email = aws.ToString(attr.Value)
			break
		}
	}
	if email == "" {
		email = aws.ToString(out.Username)
	}

	user, err := store.GetUserByEmail(ctx, email)
	if err != nil {
		return "", "", err
	}
	return user.ID, user.Email, nil
}
