package services

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotEligible     = errors.New("not eligible")
	ErrAlreadyRedeemed = errors.New("coupon already redeemed")
	ErrExpired         = errors.New("coupon expired")
	ErrOutOfRange      = errors.New("too far from location")
	ErrGeolocation     = errors.New("geolocation failed")
)
