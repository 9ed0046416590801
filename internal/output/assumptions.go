package output

// DefaultAssumptions lists the rules behind the numbers in detailed outputs
var DefaultAssumptions = []string{
	"年収は1月から12月までの支給額の合計で判定します",
	"予測年収は記録済みの月の平均×12ヶ月で計算しています",
	"月の目安は残りの枠を残りの月数で割った金額です（1円未満切り捨て）",
	"閾値は年度ごとに登録された値を使い、取得できない場合は既定値を使用します",
}
