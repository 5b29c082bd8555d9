package service

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/luxestudio-live/coupon-bazaar/pkg/apperror"
	"github.com/luxestudio-live/coupon-bazaar/pkg/logger"
	"github.com/luxestudio-live/coupon-bazaar/pkg/utils"

	"go.uber.org/zap"
)

// Session 登录成功后返回的令牌
type Session struct {
	Token    string    `json:"token"`
	ExpireAt time.Time `json:"expireAt"`
}

// AdminService 后台登录
type AdminService interface {
	Login(email, password string) (*Session, error)
}

type adminService struct {
	email     string
	password  string
	jwtSecret string
	ttl       time.Duration
}

// NewAdminService 账号来自配置，未配置时任何登录都会失败
func NewAdminService(email, password, jwtSecret string, ttl time.Duration) AdminService {
	return &adminService{
		email:     strings.ToLower(strings.TrimSpace(email)),
		password:  password,
		jwtSecret: jwtSecret,
		ttl:       ttl,
	}
}

func (s *adminService) Login(email, password string) (*Session, error) {
	if s.email == "" || s.password == "" {
		return nil, apperror.New(apperror.KindUnauthorized, "admin account is not configured")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !emailOK || !passOK {
		logger.Log.Warn("admin login rejected", zap.String("email", email))
		return nil, apperror.New(apperror.KindUnauthorized, "invalid email or password")
	}

	token, expireAt, err := utils.GenerateToken(s.jwtSecret, s.email, utils.RoleAdmin, s.ttl)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("admin logged in", zap.String("email", s.email))
	return &Session{Token: token, ExpireAt: expireAt}, nil
}
