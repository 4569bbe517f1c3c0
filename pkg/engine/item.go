package engine

import "encoding/json"

// PlanItem is a classified finding together with its effort estimate.
// It can only be produced by the engine.
type PlanItem struct {
	f     finding
	level RiskLevel
	hours int
}

func (it PlanItem) ID() string               { return it.f.id }
func (it PlanItem) Package() string          { return it.f.pkg }
func (it PlanItem) InstalledVersion() string { return it.f.installedVersion }
func (it PlanItem) FixedVersion() string     { return it.f.fixedVersion }
func (it PlanItem) CVSSScore() float64       { return it.f.cvssScore }
func (it PlanItem) KEV() bool                { return it.f.cisaKev }
func (it PlanItem) Title() string            { return it.f.title }
func (it PlanItem) Description() string      { return it.f.description }
func (it PlanItem) Source() SourceFormat     { return it.f.source }
func (it PlanItem) Level() RiskLevel         { return it.level }
func (it PlanItem) EffortHours() int         { return it.hours }

// PatchAvailable reports whether the scanner published a fixed version.
func (it PlanItem) PatchAvailable() bool { return it.f.fixedVersion != "" }

func (it PlanItem) UpgradeKind() UpgradeKind {
	return upgradeKind(it.f.installedVersion, it.f.fixedVersion)
}

type planItemJSON struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	CVSSScore        float64      `json:"cvss_score"`
	CisaKEV          bool         `json:"cisa_kev"`
	FixedVersion     string       `json:"fixed_version"`
	PkgName          string       `json:"pkg_name"`
	InstalledVersion string       `json:"installed_version"`
	Description      string       `json:"description"`
	Source           SourceFormat `json:"source"`
	RiskLevel        RiskLevel    `json:"risk_level"`
	FixEffortHours   int          `json:"fix_effort_hours"`
	Upgrade          UpgradeKind  `json:"upgrade"`
}

func (it PlanItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(planItemJSON{
		ID:               it.f.id,
		Title:            it.f.title,
		CVSSScore:        it.f.cvssScore,
		CisaKEV:          it.f.cisaKev,
		FixedVersion:     it.f.fixedVersion,
		PkgName:          it.f.pkg,
		InstalledVersion: it.f.installedVersion,
		Description:      it.f.description,
		Source:           it.f.source,
		RiskLevel:        it.level,
		FixEffortHours:   it.hours,
		Upgrade:          it.UpgradeKind(),
	})
}
