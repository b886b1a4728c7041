// Copyright ©2024 The GUDA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gemmcheck

import (
	"fmt"
	"runtime/debug"
	"strings"
)

const (
	modulePath = "github.com/LynnColeArt/gemmcheck"
	gonumPath  = "gonum.org/v1/gonum"
)

// Version reports the gemmcheck module version and checksum baked into the
// running binary, whether gemmcheck is the main module or a dependency of
// it. Both are empty when the binary carries no build info, and a local
// checkout built in place reports "(devel)".
func Version() (version, sum string) {
	return moduleVersion(modulePath)
}

// GonumVersion reports the gonum module the default kernels were built
// against, empty when unknown.
func GonumVersion() string {
	version, _ := moduleVersion(gonumPath)
	return version
}

// moduleVersion looks path up in the build info. A replaced module is
// reported as "<version> => <replacement>", with the replacement's sum.
func moduleVersion(path string) (version, sum string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	if info.Main.Path == path {
		return info.Main.Version, info.Main.Sum
	}
	for _, m := range info.Deps {
		if m.Path != path {
			continue
		}
		if r := m.Replace; r != nil {
			return fmt.Sprintf("%s => %s", m.Version, strings.TrimSpace(r.Path+" "+r.Version)), r.Sum
		}
		return m.Version, m.Sum
	}
	return "", ""
}
