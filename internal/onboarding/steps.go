// Package onboarding is the adaptive intake flow as a finite-state machine.
// Every function is evaluated against an explicit date so the reachable
// step graph can be enumerated without a clock.
package onboarding

// Step is one screen of the intake flow
type Step string

const (
	StepDOB       Step = "ScreenDOB"
	StepStudent   Step = "ScreenStudent"
	StepInsurance Step = "ScreenInsurance"
	StepOtherInc  Step = "ScreenOtherInc"
	StepMultiPay  Step = "ScreenMultiPay"
	StepFutureIns Step = "ScreenFutureIns"
	StepJobs      Step = "ScreenJobs"
	StepBankLink  Step = "ScreenBankLink"
	StepComplete  Step = "Complete"
)

var allSteps = []Step{
	StepDOB,
	StepStudent,
	StepInsurance,
	StepOtherInc,
	StepMultiPay,
	StepFutureIns,
	StepJobs,
	StepBankLink,
	StepComplete,
}

// AllSteps returns every step in flow order, applicable or not
func AllSteps() []Step {
	return append([]Step(nil), allSteps...)
}

// Valid reports whether s is a defined step
func (s Step) Valid() bool {
	for _, step := range allSteps {
		if s == step {
			return true
		}
	}
	return false
}

func (s Step) String() string { return string(s) }

// StepConfig is the copy shown for a step
type StepConfig struct {
	Step        Step
	Title       string
	Description string
	Fields      []string
}

var stepConfigs = map[Step]StepConfig{
	StepDOB: {
		Step:        StepDOB,
		Title:       "生年月日を教えてください",
		Description: "扶養控除の適用条件を確認するため、生年月日が必要です",
		Fields:      []string{"birth_date"},
	},
	StepStudent: {
		Step:        StepStudent,
		Title:       "現在学生ですか？",
		Description: "19〜22歳の学生は特定扶養控除（150万円）が適用されます",
		Fields:      []string{"student"},
	},
	StepInsurance: {
		Step:        StepInsurance,
		Title:       "健康保険の加入状況",
		Description: "親の扶養に入っているか、自分で社会保険に加入しているか教えてください",
		Fields:      []string{"insurance_status"},
	},
	StepOtherInc: {
		Step:        StepOtherInc,
		Title:       "給与以外の収入はありますか？",
		Description: "手渡し給与、フリーランス収入、投資収益などがある場合は「はい」を選択",
		Fields:      []string{"other_income"},
	},
	StepMultiPay: {
		Step:        StepMultiPay,
		Title:       "複数の勤務先がありますか？",
		Description: "掛け持ちバイトや複数の収入源がある場合は「はい」を選択",
		Fields:      []string{"multi_pay"},
	},
	StepFutureIns: {
		Step:        StepFutureIns,
		Title:       "社会保険加入予定はありますか？",
		Description: "今後、自分で社会保険に加入する予定がある場合は日付を選択",
		Fields:      []string{"future_self_insurance_date"},
	},
	StepJobs: {
		Step:        StepJobs,
		Title:       "勤務先情報を登録",
		Description: "給与振込を自動判別するため、勤務先情報を入力してください",
		Fields:      []string{"jobs"},
	},
	StepBankLink: {
		Step:        StepBankLink,
		Title:       "銀行口座を連携",
		Description: "給与振込を自動で追跡するため、口座を連携してください",
		Fields:      []string{"bank_connections"},
	},
	StepComplete: {
		Step:        StepComplete,
		Title:       "設定完了！",
		Description: "オンボーディングが完了しました",
	},
}

// Config returns the copy for s; undefined steps get an empty config
func (s Step) Config() StepConfig {
	return stepConfigs[s]
}
