// Package reload coordinates configuration reload requests from two sources:
// an on-disk marker deposited by the external editor process and an in-process
// flag raised by the daily rollover timer.
//
// The marker's presence is the signal and its deletion the acknowledgment;
// exactly one consumer (the scheduler) removes it. The flag is observed and
// cleared atomically under the coordinator's lock, so repeated polling after
// a positive read reports nothing until the next request.
package reload
