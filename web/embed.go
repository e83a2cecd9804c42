// Package web embeds the browser UI.
package web

import "embed"

//go:embed static/*
var Files embed.FS
