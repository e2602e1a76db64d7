// Package bleu scores translations against reference translations with
// corpus-level BLEU.
//
// References are given as one group of acceptable translations per
// position. FormatReferences splits them into token lists on whitespace;
// predictions are tokenized the same way before scoring. Evaluate checks
// that predictions and reference groups line up, then computes modified
// n-gram precisions, their geometric mean and the brevity penalty.
package bleu
