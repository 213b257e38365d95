package cost

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"strings"

	"github.com/de-tools/iac-cost/pkg/models/domain"
	"github.com/de-tools/iac-cost/pkg/parser/arm"
	"github.com/de-tools/iac-cost/pkg/parser/bicep"
	"github.com/rs/zerolog"
)

// LoadBicep parses a Bicep template. Quoted parameter defaults are
// overlaid with the .bicepparam or JSON parameter file, and location
// falls back to region.
func LoadBicep(_ context.Context, src Source, region string) ([]domain.ResourceDescriptor, error) {
	content := string(src.Content)
	params := bicep.ParseParameterDefaults(content)

	if len(src.Params) > 0 {
		switch strings.ToLower(filepath.Ext(src.ParamsPath)) {
		case ".bicepparam":
			maps.Copy(params, bicep.ParseBicepParam(string(src.Params)))
		case ".json":
			overrides, err := bicep.ParseJSONParameterFile(src.Params)
			if err != nil {
				return nil, err
			}
			maps.Copy(params, overrides)
		}
	}

	if _, ok := params["location"]; !ok {
		params["location"] = domain.Resolved(region)
	}
	return bicep.Resolve(bicep.Parse(content), params), nil
}

// LoadARM parses an ARM template, overlays the parameter file on the
// declared defaults and resolves the supported expressions.
func LoadARM(ctx context.Context, src Source, region string) ([]domain.ResourceDescriptor, error) {
	tpl := arm.NewParser(*zerolog.Ctx(ctx)).Parse(src.Content)

	params := maps.Clone(tpl.Parameters)
	if len(src.Params) > 0 {
		overrides, err := arm.ParseParameterFile(src.Params)
		if err != nil {
			return nil, fmt.Errorf("parameters file %s: %w", src.ParamsPath, err)
		}
		maps.Copy(params, overrides)
	}

	if _, ok := params["location"]; !ok {
		params["location"] = domain.Resolved(region)
	}
	return arm.Resolve(tpl.Resources, params, tpl.Variables, region), nil
}
