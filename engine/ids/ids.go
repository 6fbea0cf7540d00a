// Package ids lists the standard Cubism group, part and parameter ids.
package ids

// Groups
const (
	GroupEyeBlink = "EyeBlink"
	GroupLipSync  = "LipSync"
)

// Parts
const (
	HitAreaPrefix = "HitArea"
	HitAreaHead   = "Head"
	HitAreaBody   = "Body"

	PartCore = "Parts01Core"

	PartArmPrefix  = "Parts01Arm_"
	PartArmLPrefix = "Parts01ArmL_"
	PartArmRPrefix = "Parts01ArmR_"
)

// Parameters
const (
	ParamAngleX = "ParamAngleX"
	ParamAngleY = "ParamAngleY"
	ParamAngleZ = "ParamAngleZ"

	ParamEyeLOpen    = "ParamEyeLOpen"
	ParamEyeLSmile   = "ParamEyeLSmile"
	ParamEyeROpen    = "ParamEyeROpen"
	ParamEyeRSmile   = "ParamEyeRSmile"
	ParamEyeBallX    = "ParamEyeBallX"
	ParamEyeBallY    = "ParamEyeBallY"
	ParamEyeBallForm = "ParamEyeBallForm"
	ParamBrowLY      = "ParamBrowLY"
	ParamBrowRY      = "ParamBrowRY"
	ParamBrowLX      = "ParamBrowLX"
	ParamBrowRX      = "ParamBrowRX"
	ParamBrowLAngle  = "ParamBrowLAngle"
	ParamBrowRAngle  = "ParamBrowRAngle"
	ParamBrowLForm   = "ParamBrowLForm"
	ParamBrowRForm   = "ParamBrowRForm"
	ParamMouthForm   = "ParamMouthForm"
	ParamMouthOpenY  = "ParamMouthOpenY"
	ParamCheek       = "ParamCheek"
	ParamBodyAngleX  = "ParamBodyAngleX"
	ParamBodyAngleY  = "ParamBodyAngleY"
	ParamBodyAngleZ  = "ParamBodyAngleZ"
	ParamBreath      = "ParamBreath"
	ParamArmLA       = "ParamArmLA"
	ParamArmRA       = "ParamArmRA"
	ParamArmLB       = "ParamArmLB"
	ParamArmRB       = "ParamArmRB"
	ParamHandL       = "ParamHandL"
	ParamHandR       = "ParamHandR"
	ParamHairFront   = "ParamHairFront"
	ParamHairSide    = "ParamHairSide"
	ParamHairBack    = "ParamHairBack"
	ParamHairFluffy  = "ParamHairFluffy"
	ParamShoulderY   = "ParamShoulderY"
	ParamBustX       = "ParamBustX"
	ParamBustY       = "ParamBustY"
	ParamBaseX       = "ParamBaseX"
	ParamBaseY       = "ParamBaseY"

	// None is the placeholder id the editor writes for unbound slots.
	None = "NONE:"
)
