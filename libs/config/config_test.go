package config

import (
	"reflect"
	"testing"
)

func TestListSplitsAndTrims(t *testing.T) {
	t.Setenv("TEST_LIST", " a, b ,,c ")
	got := List("TEST_LIST", "x,y")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("List = %v, want %v", got, want)
	}
}

func TestListFallback(t *testing.T) {
	t.Setenv("TEST_LIST_UNSET", "")
	got := List("TEST_LIST_UNSET", "GET, POST ,OPTIONS")
	want := []string{"GET", "POST", "OPTIONS"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("List fallback = %v, want %v", got, want)
	}
	if out := List("TEST_LIST_UNSET", ""); len(out) != 0 {
		t.Fatalf("List empty fallback = %v, want empty", out)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "yes")
	if !Bool("TEST_BOOL", false) {
		t.Fatal("yes should be true")
	}
	t.Setenv("TEST_BOOL", "off")
	if Bool("TEST_BOOL", true) {
		t.Fatal("off should be false")
	}
	t.Setenv("TEST_BOOL", "maybe")
	if !Bool("TEST_BOOL", true) {
		t.Fatal("garbage should keep the fallback")
	}
}

func TestPort(t *testing.T) {
	t.Setenv("TEST_PORT", "8080")
	if p, err := Port("TEST_PORT", "9999"); err != nil || p != "8080" {
		t.Fatalf("Port = %q, %v", p, err)
	}
	t.Setenv("TEST_PORT", "not-a-port")
	if _, err := Port("TEST_PORT", "9999"); err == nil {
		t.Fatal("want error for invalid port")
	}
}
