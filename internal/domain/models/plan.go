package models

// PlanAction names what a plan step does with its unit
type PlanAction string

const (
	ActionDeploy            PlanAction = "deploy"
	ActionDeployOrSkip      PlanAction = "deploy-or-skip"
	ActionDeployAs          PlanAction = "deploy-as"
	ActionDeployWith        PlanAction = "deploy-with"
	ActionDeployUpgradeable PlanAction = "deploy-upgradeable"
)

// Plan is an ordered list of deployment steps loaded from YAML
type Plan struct {
	Steps []*PlanStep `yaml:"steps"`
}

// PlanStep is a single deployment request.
// String args of the form "@Name" are replaced by the recorded address of Name.
type PlanStep struct {
	Action PlanAction `yaml:"action,omitempty"`
	Unit   string     `yaml:"unit"`
	Alias  string     `yaml:"alias,omitempty"`
	Signer string     `yaml:"signer,omitempty"`
	Admin  string     `yaml:"admin,omitempty"`
	Args   []any      `yaml:"args,omitempty"`
}

// RecordName returns the ledger key the step writes to
func (s *PlanStep) RecordName() string {
	if s.Action == ActionDeployAs && s.Alias != "" {
		return s.Alias
	}
	return s.Unit
}
