package model

import "strings"

// CredentialInput is the submission of the account form.
type CredentialInput struct {
	Username    string `json:"username" mapstructure:"username" validate:"required,email"`
	Password    string `json:"password" mapstructure:"password" validate:"required"`
	CountryCode string `json:"country_code" mapstructure:"country_code" validate:"required,iso3166_1_alpha2"`
	AcceptTerms bool   `json:"accept_terms" mapstructure:"accept_terms"`
}

func (c CredentialInput) Credentials() Credentials {
	return Credentials{
		Username:    strings.TrimSpace(c.Username),
		Password:    c.Password,
		CountryCode: strings.ToUpper(strings.TrimSpace(c.CountryCode)),
	}
}

type Credentials struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	CountryCode string `json:"country_code"`
}

// UniqueID is the account key of a configuration entry.
func (c Credentials) UniqueID() string {
	return UniqueID(c.Username)
}

func UniqueID(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
