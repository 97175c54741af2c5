package redis

// KeyJudgedSet is the set of all combinations already judged, mirroring
// the verification log for cheap membership checks.
const KeyJudgedSet = "wordforge:judged"
