package transcode

import (
	"metatube/internal/models"
	"metatube/pkg/schema"
)

// attributeValue returns the value of a well-known attribute of p.
func attributeValue(p *models.Point, a schema.Attribute) float32 {
	switch a {
	case schema.ID:
		return p.ID
	case schema.X:
		return p.Position[0]
	case schema.Y:
		return p.Position[1]
	case schema.Z:
		return p.Position[2]
	case schema.Red:
		return p.Color[0]
	case schema.Green:
		return p.Color[1]
	case schema.Blue:
		return p.Color[2]
	case schema.Alpha:
		return p.Color[3]
	case schema.Mark:
		if p.Marked {
			return 1
		}
		return 0
	case schema.Radius:
		return p.Radius
	case schema.Ridgeness:
		return p.Ridgeness
	case schema.Medialness:
		return p.Medialness
	case schema.Branchness:
		return p.Branchness
	case schema.Curvature:
		return p.Curvature
	case schema.Levelness:
		return p.Levelness
	case schema.Roundness:
		return p.Roundness
	case schema.Intensity:
		return p.Intensity
	case schema.Tx:
		return p.Tangent[0]
	case schema.Ty:
		return p.Tangent[1]
	case schema.Tz:
		return p.Tangent[2]
	case schema.V1x:
		return p.Normal1[0]
	case schema.V1y:
		return p.Normal1[1]
	case schema.V1z:
		return p.Normal1[2]
	case schema.V2x:
		return p.Normal2[0]
	case schema.V2y:
		return p.Normal2[1]
	case schema.V2z:
		return p.Normal2[2]
	case schema.A1:
		return p.Alpha1
	case schema.A2:
		return p.Alpha2
	case schema.A3:
		return p.Alpha3
	}
	return 0
}

// setAttribute assigns v to a well-known attribute of p.
func setAttribute(p *models.Point, a schema.Attribute, v float32) {
	switch a {
	case schema.ID:
		p.ID = v
	case schema.X:
		p.Position[0] = v
	case schema.Y:
		p.Position[1] = v
	case schema.Z:
		p.Position[2] = v
	case schema.Red:
		p.Color[0] = v
	case schema.Green:
		p.Color[1] = v
	case schema.Blue:
		p.Color[2] = v
	case schema.Alpha:
		p.Color[3] = v
	case schema.Mark:
		p.Marked = v != 0
	case schema.Radius:
		p.Radius = v
	case schema.Ridgeness:
		p.Ridgeness = v
	case schema.Medialness:
		p.Medialness = v
	case schema.Branchness:
		p.Branchness = v
	case schema.Curvature:
		p.Curvature = v
	case schema.Levelness:
		p.Levelness = v
	case schema.Roundness:
		p.Roundness = v
	case schema.Intensity:
		p.Intensity = v
	case schema.Tx:
		p.Tangent[0] = v
	case schema.Ty:
		p.Tangent[1] = v
	case schema.Tz:
		p.Tangent[2] = v
	case schema.V1x:
		p.Normal1[0] = v
	case schema.V1y:
		p.Normal1[1] = v
	case schema.V1z:
		p.Normal1[2] = v
	case schema.V2x:
		p.Normal2[0] = v
	case schema.V2y:
		p.Normal2[1] = v
	case schema.V2z:
		p.Normal2[2] = v
	case schema.A1:
		p.Alpha1 = v
	case schema.A2:
		p.Alpha2 = v
	case schema.A3:
		p.Alpha3 = v
	}
}
