package rws

import (
	"context"
	"fmt"
	"net/url"
)

// Домены мастерства контроллера. Пустая строка означает все домены.
const (
	MastershipAll    = ""
	MastershipCFG    = "cfg"
	MastershipMotion = "motion"
	MastershipRAPID  = "rapid"
)

// RegisterLocalUser регистрирует пользователя как локального клиента (на FlexPendant).
// Пустые application и location заменяются значениями из Options.
func (s *Session) RegisterLocalUser(ctx context.Context, username, application, location string) error {
	return s.registerUser(ctx, username, application, location, "local")
}

// RegisterRemoteUser регистрирует пользователя как удаленного клиента.
func (s *Session) RegisterRemoteUser(ctx context.Context, username, application, location string) error {
	return s.registerUser(ctx, username, application, location, "remote")
}

func (s *Session) registerUser(ctx context.Context, username, application, location, locale string) error {
	if username == "" {
		username = s.opts.Username
	}
	if application == "" {
		application = s.opts.Application
	}
	if location == "" {
		location = s.opts.Location
	}
	form := url.Values{
		"username":    {username},
		"application": {application},
		"location":    {location},
		"ulocale":     {locale},
	}
	if _, err := s.post(ctx, resourceUsers, form); err != nil {
		return s.writeError(fmt.Sprintf("%s user %s", locale, username), err)
	}
	s.logger.WithField("user", username).WithField("ulocale", locale).Info("Пользователь зарегистрирован")
	return nil
}

// RequestMastership захватывает мастерство в домене (cfg, motion, rapid или все).
func (s *Session) RequestMastership(ctx context.Context, domain string) error {
	if _, err := s.post(ctx, s.dialect.Paths.MastershipRequest(domain), nil); err != nil {
		return s.writeError(fmt.Sprintf("mastership request %q", domain), err)
	}
	return nil
}

// ReleaseMastership освобождает мастерство в домене.
func (s *Session) ReleaseMastership(ctx context.Context, domain string) error {
	if _, err := s.post(ctx, s.dialect.Paths.MastershipRelease(domain), nil); err != nil {
		return s.writeError(fmt.Sprintf("mastership release %q", domain), err)
	}
	return nil
}
