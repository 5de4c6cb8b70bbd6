// Package placement computes integer lattice points spread evenly around a
// center inside a radius band.
//
// A [Request] names a point count, a [Band] (inner and outer radius) and an
// offset. [Generate] divides the full turn into Count equal slots, slot k
// targeting angle k*2π/Count, and for every slot selects the band member
// whose direction is closest to the slot angle. The chosen points are then
// translated by the offset.
//
// # Selection rule
//
// Angular deviation is the shorter arc between a point's direction and the
// slot angle. Candidates within 1e-12 rad of each other are ranked by
//
//  1. distance between their radius and the band's mid radius,
//  2. smaller radius,
//  3. smaller X, then smaller Y.
//
// The origin has no direction. It belongs to bands with Min == 0 but is
// scored with the worst possible deviation (π), so it is chosen only when
// it is the band's sole member.
//
// # Strategies
//
// Two exact search strategies produce the same points:
//
//   - [StrategyIndex] enumerates the band once per request and looks slots
//     up in an angle-sorted index.
//   - [StrategyWedge] never materializes the band. In a band at least
//     4√Max across it walks the Farey sequence of lattice directions from
//     the two that bracket the slot angle; in a narrower band it scans the
//     integer columns around the slot's ray.
//
// [StrategyAuto] picks the index while the band's area is at most about a
// million, and the wedge search otherwise.
//
// # Cost
//
// [MaxRadius] bounds every search. The index costs O(Max) column steps plus
// O(P log P) for a band of P points, once per request, and O(log P) per
// slot beyond that. The Farey walk costs O(log Max) per visited direction;
// a slot visits about √Max/8 directions at worst before one has a multiple
// in the band, and the tie group after it. With Max >= 2*Min the first
// direction always qualifies, so a slot costs O(log Max) plus its ties.
// The column scan of a band w across costs O(w + δ·Max) per slot, where δ
// is the deviation of the answer, which stays O(1/Max) in any band with a
// point per unit of arc. [GenerateContext] checks for cancellation before
// every slot.
//
// # Duplicates
//
// Distinct slots may select the same point when the band is narrow relative
// to Count. [Result.Duplicates] reports such groups. Setting
// [Request.Distinct] instead gives each slot the best point not taken by an
// earlier slot.
//
// # Errors
//
// Invalid requests fail with code INVALID_ARGUMENT. A slot without any
// admissible point fails with UNSATISFIABLE wrapping a [*SlotError].
// No partial results are returned.
package placement
