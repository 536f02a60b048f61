// Copyright (c) 2026 WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PASSWORD", "1234567887654321")
	t.Setenv("CALLBACK_BASE_URL", "https://x/")
	t.Setenv("PARAMS_FILE", "")
	t.Setenv("DEVICE_SOURCE", "")
	t.Setenv("FONT_PATH", "")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSignCommand(t *testing.T) {
	setTestEnv(t)

	out, err := execute(t, "sign", "abc")
	require.NoError(t, err)
	assert.Equal(t, `___VBAR_CONFIG_V1.1.0___{w_mode=1,ochannel=64,nochannel=64,owifi=1,de_type=513,`+
		`nfc=1,nfc_identity_card_enable=0,nfc_card_protocol=3,st=1,len=8,nft=0,awifi_s=2,`+
		`relayd=1000,awifi_f=4,haddr="https://x/abc",houttime=5}--YTtbxemRXaMBshVPBeV1uw==`,
		strings.TrimSpace(out))
}

func TestSignCommand_ParamsFile(t *testing.T) {
	setTestEnv(t)
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("b: x\na: 1\n"), 0o644))

	out, err := execute(t, "sign", "--params", path, "abc")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `___VBAR_CONFIG_V1.1.0___{b=x,a=1,haddr="https://x/abc"}--`), out)
}

func TestProvisionCommand(t *testing.T) {
	setTestEnv(t)
	out := t.TempDir()

	_, err := execute(t, "provision", "--out", out, "door-1", "door-2")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "door-1.png"))
	assert.FileExists(t, filepath.Join(out, "door-2.png"))
}

func TestProvisionCommand_GeneratesID(t *testing.T) {
	setTestEnv(t)
	out := t.TempDir()

	_, err := execute(t, "provision", "--out", out)
	require.NoError(t, err)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Regexp(t, `^[0-9a-f]{32}\.png$`, entries[0].Name())
}

func TestBatchCommand(t *testing.T) {
	setTestEnv(t)
	dir := t.TempDir()
	list := filepath.Join(dir, "devices.json")
	require.NoError(t, os.WriteFile(list, []byte(`["a", "dévice", "b"]`), 0o644))
	out := filepath.Join(dir, "results")

	_, err := execute(t, "batch", "--devices", list, "--out", out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 devices failed")
	assert.FileExists(t, filepath.Join(out, "a.png"))
	assert.FileExists(t, filepath.Join(out, "b.png"))
}

func TestBatchCommand_MissingDeviceFile(t *testing.T) {
	setTestEnv(t)
	dir := t.TempDir()

	_, err := execute(t, "batch", "--devices", filepath.Join(dir, "devices.json"), "--out", filepath.Join(dir, "results"))
	assert.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(dir, "results"))
}
