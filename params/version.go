// Copyright 2016 The go-ethereum Authors
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

package params

import (
	"encoding/json"
	"os"
	"time"

	"github.com/zircuit-labs/zkr-go-common/version"
)

// VersionFile is where the build pipeline drops the release metadata.
const VersionFile = "/etc/version.json"

var (
	Info            version.VersionInformation
	VersionWithMeta = "unknown-version"
)

func init() {
	_ = LoadVersion(VersionFile)
}

// LoadVersion reads release metadata from path and refreshes Info and
// VersionWithMeta. A missing or malformed file leaves both untouched.
func LoadVersion(path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var info version.VersionInformation
	if err := json.Unmarshal(file, &info); err != nil {
		return err
	}
	info.Date = time.Unix(info.GitDate, 0).UTC()

	Info = info
	VersionWithMeta = info.Version
	if info.Variant != "" {
		VersionWithMeta += "-" + info.Variant
	}
	return nil
}
