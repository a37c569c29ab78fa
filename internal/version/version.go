// Copyright 2022 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package version implements reading of build version information.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/hashgraph/hedera-mirror-node-sub001/params"
)

const (
	ourPath    = "github.com/hashgraph/hedera-mirror-node-sub001" // Path to our module
	clientName = "hedera-web3"
)

// ClientName creates a software name/version identifier according to common
// conventions, as reported by web3_clientVersion.
func ClientName(clientIdentifier string) string {
	if clientIdentifier == "" {
		clientIdentifier = clientName
	}
	return fmt.Sprintf("%s/%v/%v-%v/%v",
		clientIdentifier,
		params.VersionWithMeta,
		runtime.GOOS,
		runtime.GOARCH,
		runtime.Version(),
	)
}

// Info returns the release version and, when built from our module, the VCS
// revision embedded by the go toolchain.
func Info() (version, vcs string) {
	version = fmt.Sprintf("%s %s", clientName, params.VersionWithMeta)
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok || buildInfo.Main.Path != ourPath {
		return version, ""
	}
	var revision, modified string
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value
		}
	}
	if len(revision) > 8 {
		revision = revision[:8]
	}
	if modified == "true" && revision != "" {
		revision += "-dirty"
	}
	return version, revision
}
