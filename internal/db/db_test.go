package db

import (
	"net/url"
	"testing"

	"github.com/jjudge-oj/usersvc/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db.local",
		Port:     5433,
		User:     "svc",
		Password: "p@ss word",
		DBName:   "users_db",
		UseSSL:   true,
	})

	u, err := url.Parse(dsn)
	if err != nil {
		t.Fatalf("parse dsn: %v", err)
	}
	if u.Scheme != "postgres" {
		t.Fatalf("unexpected scheme: %q", u.Scheme)
	}
	if u.Host != "db.local:5433" {
		t.Fatalf("unexpected host: %q", u.Host)
	}
	if pw, _ := u.User.Password(); pw != "p@ss word" {
		t.Fatalf("password not preserved: %q", pw)
	}
	if u.Path != "/users_db" && u.Path != "users_db" {
		t.Fatalf("unexpected path: %q", u.Path)
	}
	if got := u.Query().Get("sslmode"); got != "require" {
		t.Fatalf("unexpected sslmode: %q", got)
	}
}

func TestDSN_SSLDisabled(t *testing.T) {
	u, err := url.Parse(DSN(config.DatabaseConfig{Host: "localhost", Port: 5432, DBName: "x"}))
	if err != nil {
		t.Fatalf("parse dsn: %v", err)
	}
	if got := u.Query().Get("sslmode"); got != "disable" {
		t.Fatalf("unexpected sslmode: %q", got)
	}
}
