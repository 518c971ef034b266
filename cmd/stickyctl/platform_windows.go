//go:build windows

package main

import _ "activesticky/internal/platform/win32"
