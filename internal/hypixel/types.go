package hypixel

import "fmt"

// What a stats request produced
type ResultKind int

const (
	ResultEmpty ResultKind = iota
	ResultOK
	ResultRateLimited
)

func (kind ResultKind) String() string {
	switch kind {
	case ResultOK:
		return "ok"
	case ResultRateLimited:
		return "rate limited"
	case ResultEmpty:
		return "empty"
	default:
		return fmt.Sprintf("ResultKind(%d)", int(kind))
	}
}

// Bedwars related data of a player at the time of the request
type Snapshot struct {
	UUID               string
	DisplayName        string
	Rank               string
	MonthlyPackageRank string
	NewPackageRank     string
	BedwarsLevel       int
}

// The outcome of a stats request. Snapshot is only meaningful
// when Kind is ResultOK
type Result struct {
	Kind     ResultKind
	Snapshot Snapshot
}

func Ok(snapshot Snapshot) Result {
	return Result{Kind: ResultOK, Snapshot: snapshot}
}

func Empty() Result {
	return Result{Kind: ResultEmpty}
}

func RateLimited() Result {
	return Result{Kind: ResultRateLimited}
}

func (result Result) OK() bool {
	return result.Kind == ResultOK
}
