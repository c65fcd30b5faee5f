// Package analysis compares evaluated alternatives: the incremental
// cost-effectiveness ratio, net monetary benefit and the cost-effectiveness
// frontier.
package analysis
