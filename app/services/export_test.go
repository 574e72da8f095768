package services

var Average = average
