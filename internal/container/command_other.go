// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build !unix

package container

import "os/exec"

// killGroupOnCancel relies on the default kill plus WaitDelay where process
// groups are unavailable.
func killGroupOnCancel(*exec.Cmd) {}
