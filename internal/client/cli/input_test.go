package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	if out.String() != "Name?\n> " {
		t.Fatalf("unexpected prompt %q", out.String())
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSimpleTextEmptyEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader(""))
	var out bytes.Buffer
	_, err := GetSimpleText(in, "Name?", &out)
	require.Error(t, err)
}

func TestGetPassword(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })

	readPassword = func(int) ([]byte, error) { return []byte("pw123"), nil }
	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	require.Equal(t, []byte("pw123"), pw)
	require.Equal(t, "Enter password: \n", out.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("not a terminal") }
	_, err = GetPassword(&out)
	require.Error(t, err)
}
