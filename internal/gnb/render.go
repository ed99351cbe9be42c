/*

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package gnb

import (
	"bytes"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// BaseConfigPath is the directory holding the gNB configuration file
	// inside the workload container.
	BaseConfigPath = "/etc"
	// ConfigFileName is the name of the gNB configuration file.
	ConfigFileName = "gnb.yaml"
	// ConfigFilePath is the full path of the gNB configuration file.
	ConfigFilePath = BaseConfigPath + "/" + ConfigFileName
)

// Endpoint values describe how the gNB reaches the core network and
// which local addresses it binds to.
type Endpoint struct {
	AMFHostname string
	AMFPort     int
	LinkAddress string
	NGAPAddress string
}

// hexValue marshals as a hexadecimal yaml integer when the value
// parses as hex, with or without a 0x prefix, and as a plain string
// otherwise.
type hexValue string

func (h hexValue) MarshalYAML() (interface{}, error) {
	digits := trimHexPrefix(string(h))
	if _, err := strconv.ParseUint(digits, 16, 64); err != nil {
		return string(h), nil
	}
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!int",
		Value: "0x" + digits,
	}, nil
}

type amfConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

type slice struct {
	SST int      `yaml:"sst"`
	SD  hexValue `yaml:"sd"`
}

// fileConfig follows the layout of the nr-gnb configuration file. Field
// order is significant: it fixes the rendered key order.
type fileConfig struct {
	MCC             string      `yaml:"mcc"`
	MNC             string      `yaml:"mnc"`
	NCI             string      `yaml:"nci"`
	IDLength        int         `yaml:"idLength"`
	TAC             hexValue    `yaml:"tac"`
	LinkIP          string      `yaml:"linkIp"`
	NGAPIP          string      `yaml:"ngapIp"`
	GTPIP           string      `yaml:"gtpIp"`
	AMFConfigs      []amfConfig `yaml:"amfConfigs"`
	Slices          []slice     `yaml:"slices"`
	IgnoreStreamIDs bool        `yaml:"ignoreStreamIds"`
}

// Render produces the gNB configuration file content. The output only
// depends on its inputs.
func Render(s *Snapshot, ep Endpoint) (string, error) {
	idLength, err := strconv.Atoi(s.IDLength)
	if err != nil {
		return "", err
	}
	sst, err := strconv.Atoi(s.SST)
	if err != nil {
		return "", err
	}
	fc := fileConfig{
		MCC:        s.MCC,
		MNC:        s.MNC,
		NCI:        s.NCI,
		IDLength:   idLength,
		TAC:        hexValue(s.TAC),
		LinkIP:     ep.LinkAddress,
		NGAPIP:     ep.NGAPAddress,
		GTPIP:      s.GTPAddress(),
		AMFConfigs: []amfConfig{{Address: ep.AMFHostname, Port: ep.AMFPort}},
		Slices:     []slice{{SST: sst, SD: hexValue(s.SD)}},
		// nr-gnb rejects AMFs that do not use stream id 0 for
		// non-UE signalling unless this is set.
		IgnoreStreamIDs: true,
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&fc); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
