package session

//
// cookie.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"net/http"
	"net/url"
	"strings"
)

// ParseCookies parse raw Cookie header. Pairs are separated by ';', key is
// separated from value by first '='. Value is percent-decoded; pairs with
// empty key or undecodable value are skipped. First occurrence of key wins.
func ParseCookies(header string) map[string]string {
	cookies := make(map[string]string)

	for part := range strings.SplitSeq(header, ";") {
		key, value, _ := strings.Cut(strings.TrimSpace(part), "=")

		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		if _, exists := cookies[key]; exists {
			continue
		}

		decoded, err := url.PathUnescape(strings.TrimSpace(value))
		if err != nil {
			continue
		}

		cookies[key] = decoded
	}

	return cookies
}

// CookieValue return value of cookie `name` from request; empty when not found.
func CookieValue(r *http.Request, name string) string {
	header := strings.Join(r.Header.Values("Cookie"), "; ")
	if header == "" {
		return ""
	}

	return ParseCookies(header)[name]
}

// CookieFactory create session cookies with consistent attributes.
type CookieFactory struct {
	Name   string
	Secure bool
}

// New return cookie carrying session token.
func (c CookieFactory) New(token string) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Clear return cookie that remove session cookie from client.
func (c CookieFactory) Clear() *http.Cookie {
	cookie := c.New("")
	cookie.MaxAge = -1

	return cookie
}
