package handler

import (
	obligationdomain "subtrack/internal/domain/obligation"
	methoddomain "subtrack/internal/domain/paymentmethod"
	summarydomain "subtrack/internal/domain/summary"
	userdomain "subtrack/internal/domain/user"
	"subtrack/internal/transport/httpserver/middleware"
	"subtrack/pkg/logger"
)

type Handlers struct {
	Users          *userdomain.Service
	Obligations    *obligationdomain.Service
	Summaries      *summarydomain.Service
	PaymentMethods *methoddomain.Service

	auth *middleware.JWTAuth
	log  logger.Logger
}

func New(
	users *userdomain.Service,
	obligations *obligationdomain.Service,
	summaries *summarydomain.Service,
	paymentMethods *methoddomain.Service,
	auth *middleware.JWTAuth,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Users:          users,
		Obligations:    obligations,
		Summaries:      summaries,
		PaymentMethods: paymentMethods,
		auth:           auth,
		log:            log,
	}
}
