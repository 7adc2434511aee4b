// Command authstub is a local stand-in for the external authentication
// service. It keeps users in memory, hashes passwords with bcrypt and
// issues HS256-signed bearer tokens, matching the production service's
// wire shapes so the web client runs end-to-end without it.
package main

import (
	"flag"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type userStore struct {
	mu    sync.Mutex
	users map[string][]byte // username -> bcrypt hash
}

func (s *userStore) register(username, password string) bool {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[username]; exists {
		return false
	}
	s.users[username] = hash
	return true
}

func (s *userStore) verify(username, password string) bool {
	s.mu.Lock()
	hash, exists := s.users[username]
	s.mu.Unlock()
	if !exists {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func main() {
	addr := flag.String("addr", ":8000", "listen address")
	secret := flag.String("secret", "dev-secret", "token signing secret")
	tokenTTL := flag.Duration("token-ttl", 30*time.Minute, "issued token lifetime")
	flag.Parse()

	store := &userStore{users: make(map[string][]byte)}

	r := gin.Default()

	r.POST("/register/", func(c *gin.Context) {
		var req credentials
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Username and password are required"})
			return
		}
		if !store.register(req.Username, req.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Username already registered"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User registered successfully"})
	})

	r.POST("/login/", func(c *gin.Context) {
		var req credentials
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Username and password are required"})
			return
		}
		if !store.verify(req.Username, req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid username or password"})
			return
		}

		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": req.Username,
			"exp": time.Now().Add(*tokenTTL).Unix(),
		}).SignedString([]byte(*secret))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not issue token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"access_token": token,
			"token_type":   "bearer",
		})
	})

	log.Printf("auth stub listening on %s", *addr)
	if err := r.Run(*addr); err != nil {
		log.Fatalf("auth stub failed: %v", err)
	}
}
